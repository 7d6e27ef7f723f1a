// Package form composes form contexts: the unit shared by every field of one
// logical form. A root Context is created once per form instance from a
// Plugin configuration, initial values and a submit handler. Nested regions
// derive child contexts that narrow the field-path prefix (Subkey) or the
// translation namespace (I18nBase) while sharing the form model, the
// validation registry and the translate function with their parent.
//
// Contexts travel through host code on context.Context values: Provide
// publishes a context for a subtree, Use reads the nearest one, and Update
// derives and publishes a child in one step. A provider only affects the
// ctx it returns, so sibling subtrees never observe each other's contexts.
//
// Field bindings (Element) resolve their path against a context, fetch the
// field handle from the model and keep label, help text, identifier and the
// validation rule registration in sync through explicit recompute triggers
// (SetName, SetContext, SetProps). Unmount releases the rule.
//
// Submitting runs validate → branch → commit: validation errors are written
// into the model and stop the pipeline, otherwise errors are cleared, the
// submit handler runs and the model commits its values as the new baseline.
// Failures from validation or the handler are returned unmodified.
package form
