package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for sweep run identifiers.
	FieldRunID = "run_id"
	// FieldSceneID is the standardized structured logging key for Stash scene identifiers.
	FieldSceneID = "scene_id"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
)
