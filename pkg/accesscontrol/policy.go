// Package accesscontrol evaluates role-based access against one declarative table.
package accesscontrol

import "strings"

// Role is the role of a back-office user or visitor.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
	RoleClient     Role = "client"
	// RoleAnonymous is the role of an unauthenticated visitor.
	RoleAnonymous Role = ""
)

// Roles lists the assignable roles.
var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleClient}

// Valid reports whether r is an assignable role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Decision is the outcome of an access check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Resource names a protected area of the application.
type Resource string

const (
	ResourceDashboard        Resource = "admin.dashboard"
	ResourceSections         Resource = "admin.sections"
	ResourceTemplates        Resource = "admin.templates"
	ResourceTeam             Resource = "admin.team"
	ResourceTestimonials     Resource = "admin.testimonials"
	ResourceFAQs             Resource = "admin.faqs"
	ResourcePricing          Resource = "admin.pricing"
	ResourceTrustedClients   Resource = "admin.trusted-clients"
	ResourceJobs             Resource = "admin.jobs"
	ResourceBlog             Resource = "admin.blog"
	ResourceAppointmentTypes Resource = "admin.appointment-types"
	ResourceAppointments     Resource = "admin.appointments"
	ResourceLeads            Resource = "admin.leads"
	ResourceCVs              Resource = "admin.cvs"
	ResourceUsers            Resource = "admin.users"
	ResourceClientArea       Resource = "client.area"
)

var (
	staff   = []Role{RoleAdmin, RoleEditor}
	admins  = []Role{RoleAdmin}
	members = []Role{RoleAdmin, RoleEditor, RoleClient}
)

// policy is the single source of truth for who may reach what. Super admins
// are allowed everywhere and are therefore not listed.
var policy = map[Resource][]Role{
	ResourceDashboard:        staff,
	ResourceSections:         staff,
	ResourceTemplates:        staff,
	ResourceTeam:             staff,
	ResourceTestimonials:     staff,
	ResourceFAQs:             staff,
	ResourcePricing:          staff,
	ResourceTrustedClients:   staff,
	ResourceJobs:             staff,
	ResourceBlog:             staff,
	ResourceAppointmentTypes: admins,
	ResourceAppointments:     admins,
	ResourceLeads:            admins,
	ResourceCVs:              admins,
	ResourceUsers:            nil,
	ResourceClientArea:       members,
}

// Evaluate returns Allow if role may access resource. Unknown resources and
// unknown roles are denied.
func Evaluate(resource Resource, role Role) Decision {
	if role == RoleSuperAdmin {
		return Allow
	}
	allowed, ok := policy[resource]
	if !ok {
		return Deny
	}
	return Decision(contains(allowed, role))
}

// Allowed is Evaluate as a plain bool.
func Allowed(resource Resource, role Role) bool {
	return bool(Evaluate(resource, role))
}

// ResourcesFor lists every resource the role may access, for navigation menus.
func ResourcesFor(role Role) []Resource {
	var out []Resource
	for res := range policy {
		if Allowed(res, role) {
			out = append(out, res)
		}
	}
	return out
}

// CanView decides access to a gated item that carries its own role list, such
// as an external-link section. Items that do not require auth are public;
// otherwise the visitor must be signed in and, when roles are listed, hold one.
func CanView(requiresAuth bool, allowedRoles []string, role Role) bool {
	if !requiresAuth {
		return true
	}
	if role == RoleAnonymous {
		return false
	}
	if role == RoleSuperAdmin || len(allowedRoles) == 0 {
		return true
	}
	for _, r := range allowedRoles {
		if Role(strings.TrimSpace(r)) == role {
			return true
		}
	}
	return false
}

func contains(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
