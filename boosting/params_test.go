package boosting

import (
	"testing"
)

func TestParamsFromMap(t *testing.T) {
	raw := map[string]interface{}{
		"n_estimators":      200,
		"learning_rate":     0.05,
		"num_leaves":        15,
		"max_depth":         6,
		"min_child_samples": 10,
		"reg_lambda":        1.0,
		"random_state":      7,
		"boosting_type":     "gbdt", // unknown keys pass through silently
	}

	params, err := ParamsFromMap(raw)
	if err != nil {
		t.Fatalf("ParamsFromMap() error = %v", err)
	}

	if params.NumIterations != 200 {
		t.Errorf("NumIterations = %d, want 200", params.NumIterations)
	}
	if params.LearningRate != 0.05 {
		t.Errorf("LearningRate = %v, want 0.05", params.LearningRate)
	}
	if params.NumLeaves != 15 {
		t.Errorf("NumLeaves = %d, want 15", params.NumLeaves)
	}
	if params.MaxDepth != 6 {
		t.Errorf("MaxDepth = %d, want 6", params.MaxDepth)
	}
	if params.MinDataInLeaf != 10 {
		t.Errorf("MinDataInLeaf = %d, want 10", params.MinDataInLeaf)
	}
	if params.Lambda != 1.0 {
		t.Errorf("Lambda = %v, want 1.0", params.Lambda)
	}
	if params.Seed != 7 {
		t.Errorf("Seed = %d, want 7", params.Seed)
	}
}

func TestParamsFromMapDefaults(t *testing.T) {
	params, err := ParamsFromMap(nil)
	if err != nil {
		t.Fatalf("ParamsFromMap() error = %v", err)
	}
	if params != DefaultParams() {
		t.Errorf("ParamsFromMap(nil) = %+v, want defaults %+v", params, DefaultParams())
	}
}

func TestParamsFromMapLightGBMNames(t *testing.T) {
	raw := map[string]interface{}{
		"num_iterations":   50,
		"lambda_l2":        0.5,
		"min_data_in_leaf": 3,
		"seed":             1,
	}

	params, err := ParamsFromMap(raw)
	if err != nil {
		t.Fatalf("ParamsFromMap() error = %v", err)
	}
	if params.NumIterations != 50 || params.Lambda != 0.5 || params.MinDataInLeaf != 3 || params.Seed != 1 {
		t.Errorf("unexpected params: %+v", params)
	}
}

func TestParamsFromMapNumericCoercion(t *testing.T) {
	// YAML decodes bare integers as int and decimals as float64; both
	// forms must be accepted for either parameter kind.
	raw := map[string]interface{}{
		"n_estimators":  float64(30),
		"learning_rate": 1,
	}

	params, err := ParamsFromMap(raw)
	if err != nil {
		t.Fatalf("ParamsFromMap() error = %v", err)
	}
	if params.NumIterations != 30 {
		t.Errorf("NumIterations = %d, want 30", params.NumIterations)
	}
	if params.LearningRate != 1.0 {
		t.Errorf("LearningRate = %v, want 1.0", params.LearningRate)
	}
}

func TestParamsFromMapBadValue(t *testing.T) {
	raw := map[string]interface{}{
		"learning_rate": "fast",
	}
	if _, err := ParamsFromMap(raw); err == nil {
		t.Fatal("ParamsFromMap() expected error for non-numeric value")
	}
}
