package rbac

// Default role policy. Teachers own entry and submission, HODs review,
// admins publish and administer the outcome graph.
var RolePermissions = map[string][]string{
	"student": {
		"finalmarks:view-own",
		"attainment:view",
	},
	"teacher": {
		"marks:enter",
		"marks:update",
		"marks:submit",
		"marks:view",
		"attainment:view",
		"finalmarks:view",
		"audit:view",
	},
	"hod": {
		"marks:view",
		"marks:approve",
		"marks:reject",
		"marks:freeze",
		"attainment:view",
		"finalmarks:view",
		"finalmarks:recompute",
		"audit:view",
		"outcomes:view",
	},
	"admin": {
		"*", // everything
	},
}
