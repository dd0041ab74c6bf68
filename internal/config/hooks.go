package config

import (
	"reflect"

	"github.com/iwvelando/metrics-calculator/pkg/numlist"
	"github.com/mitchellh/mapstructure"
)

var floatSliceType = reflect.TypeOf([]float64(nil))

// numberListHook lets list inputs be written as "1, 2, 3" in addition to a
// YAML sequence.
func numberListHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != floatSliceType {
			return data, nil
		}
		return numlist.Parse(data.(string))
	}
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		numberListHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
}
