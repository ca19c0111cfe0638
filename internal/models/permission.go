package models

// Permission is the app-level view of the location permission.
type Permission string

const (
	PermissionNotDetermined Permission = "not_determined"
	PermissionGranted       Permission = "granted"
	PermissionDenied        Permission = "denied"
)

// AuthorizationStatus is the permission state as reported by the platform.
type AuthorizationStatus string

const (
	AuthorizationNotDetermined       AuthorizationStatus = "notDetermined"
	AuthorizationRestricted          AuthorizationStatus = "restricted"
	AuthorizationDenied              AuthorizationStatus = "denied"
	AuthorizationAuthorizedAlways    AuthorizationStatus = "authorizedAlways"
	AuthorizationAuthorizedWhenInUse AuthorizationStatus = "authorizedWhenInUse"
)

// PermissionFromStatus collapses a platform status into the tri-state Permission.
// Unknown statuses are treated as not determined.
func PermissionFromStatus(status AuthorizationStatus) Permission {
	switch status {
	case AuthorizationAuthorizedAlways, AuthorizationAuthorizedWhenInUse:
		return PermissionGranted
	case AuthorizationDenied, AuthorizationRestricted:
		return PermissionDenied
	case AuthorizationNotDetermined:
		return PermissionNotDetermined
	default:
		return PermissionNotDetermined
	}
}
