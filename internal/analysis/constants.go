package analysis

const (
	// HammerPackage is the npm package of the gesture library
	HammerPackage = "hammerjs"

	// HammerTypesPath marks ambient declarations coming from the library typings
	HammerTypesPath = "@types/hammerjs"

	// HammerGlobal is the runtime global installed by the library
	HammerGlobal = "Hammer"
	// WindowGlobal is the host object the runtime global hangs off
	WindowGlobal = "window"

	// MaterialModulePrefix prefixes every Angular Material entry point
	MaterialModulePrefix = "@angular/material/"

	// PlatformBrowserModule exports the gesture token and module
	PlatformBrowserModule = "@angular/platform-browser"
	// AngularCoreModule exports the module and component decorators
	AngularCoreModule = "@angular/core"

	// Symbol names
	GestureConfigName = "GestureConfig"
	HammerConfigToken = "HAMMER_GESTURE_CONFIG"
	HammerModuleName  = "HammerModule"
	NgModuleName      = "NgModule"
	ComponentName     = "Component"

	// Provider literal property names
	ProvideProperty  = "provide"
	UseClassProperty = "useClass"
)
