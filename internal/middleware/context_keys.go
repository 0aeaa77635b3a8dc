package middleware

import "github.com/gin-gonic/gin"

const (
	companyIDKey = contextKey("companyID")
	actorIDKey   = contextKey("actorID")

	// CompanyIDHeader and ActorIDHeader scope a request to a tenant and
	// an acting user. They are populated by the gateway in front of this
	// service; authentication itself happens upstream.
	CompanyIDHeader = "X-Company-ID"
	ActorIDHeader   = "X-Actor-ID"
)

// TenantScopeMiddleware copies the tenant and actor headers into the Gin
// context. Requests without a company scope are rejected by the handlers.
func TenantScopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if companyID := c.GetHeader(CompanyIDHeader); companyID != "" {
			c.Set(string(companyIDKey), companyID)
		}
		if actorID := c.GetHeader(ActorIDHeader); actorID != "" {
			c.Set(string(actorIDKey), actorID)
		}
		c.Next()
	}
}

// GetCompanyIDFromContext retrieves the tenant scope of the request.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get(string(companyIDKey))
	if !exists {
		return "", false
	}
	companyID, ok := v.(string)
	if !ok || companyID == "" {
		return "", false
	}
	return companyID, true
}

// GetActorIDFromContext retrieves the acting user of the request. Defaults
// to "system" for unattended callers such as import tooling.
func GetActorIDFromContext(c *gin.Context) string {
	v, exists := c.Get(string(actorIDKey))
	if !exists {
		return "system"
	}
	actorID, ok := v.(string)
	if !ok || actorID == "" {
		return "system"
	}
	return actorID
}
