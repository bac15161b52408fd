package middleware

import (
	"go-hris-analytics/internal/shared/apperror"
	"go-hris-analytics/internal/shared/contextutil"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ResourceReports  = "reports"
	ResourceStatus   = "status"
	ResourceSnapshot = "snapshot"

	ActionRead    = "read"
	ActionRefresh = "refresh"
)

const authzModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// NewEnforcer returns the role policy of the report API: analysts read,
// admins additionally refresh the snapshot.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(authzModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicies([][]string{
		{RoleAnalyst, ResourceReports, ActionRead},
		{RoleAnalyst, ResourceStatus, ActionRead},
		{RoleAdmin, ResourceSnapshot, ActionRefresh},
	}); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicy(RoleAdmin, RoleAnalyst); err != nil {
		return nil, err
	}
	return e, nil
}

// Authorize admits the request when the token's role may perform action on
// resource. It lets everything through when authentication is disabled.
func Authorize(e *casbin.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(contextAuthDisabled) {
			c.Next()
			return
		}

		role := c.GetString(ContextRole)
		allowed, err := e.Enforce(role, resource, action)
		if err != nil {
			contextutil.GetLogger(c.Request.Context(), zap.L()).Error("authorization check failed",
				zap.String("role", role),
				zap.String("resource", resource),
				zap.Error(err),
			)
			abortWith(c, apperror.ErrInternal)
			return
		}
		if !allowed {
			abortWith(c, apperror.ErrForbidden)
			return
		}

		c.Next()
	}
}
