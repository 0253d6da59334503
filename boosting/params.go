package boosting

import (
	"github.com/agroml/yieldcast/pkg/errors"
)

// TrainingParams contains the training hyperparameters.
type TrainingParams struct {
	NumIterations  int     `json:"num_iterations"`
	LearningRate   float64 `json:"learning_rate"`
	NumLeaves      int     `json:"num_leaves"`
	MaxDepth       int     `json:"max_depth"`
	MinDataInLeaf  int     `json:"min_data_in_leaf"`
	Lambda         float64 `json:"lambda_l2"`
	MinGainToSplit float64 `json:"min_gain_to_split"`
	Seed           int     `json:"seed"`
	Verbosity      int     `json:"verbosity"`
}

// DefaultParams returns the default hyperparameters, matching the usual
// LightGBM-style defaults.
func DefaultParams() TrainingParams {
	return TrainingParams{
		NumIterations:  100,
		LearningRate:   0.1,
		NumLeaves:      31,
		MaxDepth:       -1, // no limit
		MinDataInLeaf:  20,
		Lambda:         0.0,
		MinGainToSplit: 1e-7,
		Seed:           42,
	}
}

// ParamsFromMap translates an opaque configuration map into TrainingParams.
// The recognized keys follow LightGBM naming together with their common
// scikit-learn aliases. Unknown keys are ignored, matching LightGBM's
// tolerance for extra parameters; a recognized key with an unusable value
// is an error.
func ParamsFromMap(raw map[string]interface{}) (TrainingParams, error) {
	params := DefaultParams()
	for key, value := range raw {
		switch key {
		case "n_estimators", "num_iterations", "num_trees":
			v, err := asInt(key, value)
			if err != nil {
				return TrainingParams{}, err
			}
			params.NumIterations = v
		case "learning_rate":
			v, err := asFloat(key, value)
			if err != nil {
				return TrainingParams{}, err
			}
			params.LearningRate = v
		case "num_leaves", "n_leaves":
			v, err := asInt(key, value)
			if err != nil {
				return TrainingParams{}, err
			}
			params.NumLeaves = v
		case "max_depth":
			v, err := asInt(key, value)
			if err != nil {
				return TrainingParams{}, err
			}
			params.MaxDepth = v
		case "min_child_samples", "min_data_in_leaf":
			v, err := asInt(key, value)
			if err != nil {
				return TrainingParams{}, err
			}
			params.MinDataInLeaf = v
		case "reg_lambda", "lambda_l2":
			v, err := asFloat(key, value)
			if err != nil {
				return TrainingParams{}, err
			}
			params.Lambda = v
		case "min_split_gain", "min_gain_to_split":
			v, err := asFloat(key, value)
			if err != nil {
				return TrainingParams{}, err
			}
			params.MinGainToSplit = v
		case "random_state", "seed":
			v, err := asInt(key, value)
			if err != nil {
				return TrainingParams{}, err
			}
			params.Seed = v
		case "verbosity", "verbose":
			v, err := asInt(key, value)
			if err != nil {
				return TrainingParams{}, err
			}
			params.Verbosity = v
		}
	}
	return params, nil
}

// asInt accepts YAML's int or float forms of a numeric parameter.
func asInt(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.NewValidationError(key, "expected integer", value)
	}
}

func asFloat(key string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, errors.NewValidationError(key, "expected number", value)
	}
}
