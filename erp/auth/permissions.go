package auth

import (
	"fmt"
	"net/http"

	"green_erp/erp/schema"
	"green_erp/utils"
)

type Operation string

const (
	OpItemWrite      Operation = "item:write"
	OpItemDelete     Operation = "item:delete"
	OpSupplierWrite  Operation = "supplier:write"
	OpSupplierDelete Operation = "supplier:delete"
	OpOrderWrite     Operation = "order:write"
	OpReportRead     Operation = "report:read"
)

// rolePermissions is the single source of truth for which roles may perform
// which operations. Routes consult it through RequirePermission instead of
// repeating role checks inline. Plain reads are open to any authenticated role
// and do not appear here.
var rolePermissions = map[Operation][]string{
	OpItemWrite:      {schema.RoleAdmin, schema.RoleProcurement},
	OpItemDelete:     {schema.RoleAdmin},
	OpSupplierWrite:  {schema.RoleAdmin, schema.RoleProcurement},
	OpSupplierDelete: {schema.RoleAdmin},
	OpOrderWrite:     {schema.RoleAdmin, schema.RoleProcurement},
	OpReportRead:     {schema.RoleAdmin, schema.RoleSustainability},
}

func roleAllowed(op Operation, role string) bool {
	for _, allowed := range rolePermissions[op] {
		if role == allowed {
			return true
		}
	}
	return false
}

func RequirePermission(op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			user, err := UserFromContext(r)
			if err != nil {
				utils.WriteJsonError(w, http.StatusInternalServerError, err.Error())
				return
			}

			if !roleAllowed(op, user.Role) {
				utils.WriteJsonError(w, http.StatusForbidden, fmt.Sprintf("role %v is not permitted to perform %v", user.Role, op))
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
