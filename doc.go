// Package yieldcast implements a batch crop yield prediction pipeline for
// clustered agricultural field data.
//
// The pipeline runs four stages in a fixed order:
//
//   - validation: read the train and test CSV tables, normalize column
//     names, encode categoricals, drop duplicate rows and impute missing
//     numeric values with a k-nearest-neighbor imputer fitted on the train
//     table only.
//   - modeling: fit a gradient boosting regression tree ensemble on the
//     cleaned train table.
//   - prediction: predict the target for every test row, overwriting the
//     target column.
//   - analysis: aggregate the predictions into an area-weighted average per
//     cluster and optionally write the result table and a metric report.
//
// All behavior is driven by a single YAML configuration file; see the
// config package for the schema. The cmd/yieldcast command wires the
// stages together:
//
//	yieldcast --config config.yaml
//
// The individual stages are also usable as libraries. For example, the
// boosting package exposes a scikit-learn style regressor:
//
//	reg := boosting.NewRegressor(boosting.DefaultParams())
//	if err := reg.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//	pred, err := reg.Predict(XTest)
package yieldcast
