package model

// Feature identifies a navigable section of the admin dashboard.
type Feature string

const (
	FeatureDashboard   Feature = "dashboard"
	FeatureUsers       Feature = "users"
	FeatureClients     Feature = "clients"
	FeatureIngredients Feature = "ingredients"
	FeatureRecipes     Feature = "recipes"
	FeatureProducts    Feature = "products"
	FeaturePackaging   Feature = "packaging"
	FeatureOrders      Feature = "orders"
	FeatureReports     Feature = "reports"
	FeatureSettings    Feature = "settings"
)

// AllFeatures lists every known feature key, in navigation order.
var AllFeatures = []Feature{
	FeatureDashboard,
	FeatureUsers,
	FeatureClients,
	FeatureIngredients,
	FeatureRecipes,
	FeatureProducts,
	FeaturePackaging,
	FeatureOrders,
	FeatureReports,
	FeatureSettings,
}

// Action is a permitted operation within a feature.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// AllActions is the full action set granted to admins and default-enabled features.
var AllActions = []Action{ActionView, ActionCreate, ActionUpdate, ActionDelete}

// FeaturePermission is a per-feature override assigned by an admin.
// When a user carries an entry for a feature it replaces the role default
// entirely; there is no merging of action lists.
type FeaturePermission struct {
	Enabled bool     `json:"enabled"`
	Actions []Action `json:"actions"`
}

// PermissionMap is the custom-permission document stored on a user.
// Stored as a JSON column; only atendente users ever carry one.
type PermissionMap map[Feature]FeaturePermission

// defaultAtendentePermissions is the static fallback table for the atendente
// role: dashboard and clients only, with the full action set.
var defaultAtendentePermissions = PermissionMap{
	FeatureDashboard: {Enabled: true, Actions: AllActions},
	FeatureClients:   {Enabled: true, Actions: AllActions},
}

// IsFeatureEnabled reports whether the user may access the given feature.
// Admins are always allowed. For atendentes a custom entry, when present,
// fully overrides the role default.
func (u *User) IsFeatureEnabled(feature Feature) bool {
	if u.Role == RoleAdmin {
		return true
	}
	if u.CustomPermissions != nil {
		if p, ok := u.CustomPermissions[feature]; ok {
			return p.Enabled
		}
	}
	return defaultAtendentePermissions[feature].Enabled
}

// EnabledActions returns the actions the user may perform within a feature.
// Returns nil when the feature is disabled. Whenever a feature is enabled the
// view action is included even if the stored override omitted it.
func (u *User) EnabledActions(feature Feature) []Action {
	if u.Role == RoleAdmin {
		return AllActions
	}
	if u.CustomPermissions != nil {
		if p, ok := u.CustomPermissions[feature]; ok {
			if !p.Enabled {
				return nil
			}
			return withView(p.Actions)
		}
	}
	if def, ok := defaultAtendentePermissions[feature]; ok && def.Enabled {
		return def.Actions
	}
	return nil
}

// CanPerform reports whether the user may perform action within feature.
func (u *User) CanPerform(feature Feature, action Action) bool {
	for _, a := range u.EnabledActions(feature) {
		if a == action {
			return true
		}
	}
	return false
}

// CanModifyUserPermissions reports whether current may edit target's
// permission record. Self-edits are blocked, admin records are immutable,
// and only admins may edit anyone at all.
func CanModifyUserPermissions(current, target *User) bool {
	if current == nil || target == nil {
		return false
	}
	if current.Role != RoleAdmin {
		return false
	}
	if current.ID == target.ID {
		return false
	}
	if target.Role == RoleAdmin {
		return false
	}
	return true
}

// withView prepends view unless it is already present.
func withView(actions []Action) []Action {
	for _, a := range actions {
		if a == ActionView {
			return actions
		}
	}
	out := make([]Action, 0, len(actions)+1)
	out = append(out, ActionView)
	out = append(out, actions...)
	return out
}

// ValidFeature reports whether s names a known feature key.
func ValidFeature(s string) bool {
	for _, f := range AllFeatures {
		if f == Feature(s) {
			return true
		}
	}
	return false
}

// ValidAction reports whether s names a known action.
func ValidAction(s string) bool {
	for _, a := range AllActions {
		if a == Action(s) {
			return true
		}
	}
	return false
}
