package config

// Built-in type names. The builtin deferred-computation type is registered
// in every fresh registry; user tasklikes sit next to it, never above it.
const (
	TaskTypeName        = "Task"
	TaskBuilderTypeName = "TaskBuilder"
	FuncTypeName        = "Func"
	UnitTypeName        = "Unit"
	AnyTypeName         = "Any"
)

// Builder capability names as they appear in declaration manifests.
const (
	CapCreate           = "create"
	CapSetResult        = "set-result"
	CapSetException     = "set-exception"
	CapHookContinuation = "hook-continuation"
	CapReadResult       = "read-result"
)

// RequiredCapabilities is the full capability set a builder must expose.
// A builder missing any of these is invalid and unregisterable.
var RequiredCapabilities = []string{
	CapCreate,
	CapSetResult,
	CapSetException,
	CapHookContinuation,
	CapReadResult,
}
