package authz

import (
	"context"
	"net/http"

	"github.com/stanstork/luxerent-api/internal/models"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userRoleKey contextKey = "user_role"
	tenantIDKey contextKey = "tenant_id"
)

// Identity is the authenticated principal of a request.
type Identity struct {
	UserID   string
	Role     models.UserRole
	TenantID string
}

// WithIdentity stores the principal on the context. TenantID is only set for
// tenant-role users.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	if id.UserID != "" {
		ctx = context.WithValue(ctx, userIDKey, id.UserID)
	}
	if id.TenantID != "" {
		ctx = context.WithValue(ctx, tenantIDKey, id.TenantID)
	}
	return context.WithValue(ctx, userRoleKey, models.NormalizeRole(id.Role))
}

func UserIDFromRequest(r *http.Request) (string, bool) {
	uid, ok := r.Context().Value(userIDKey).(string)
	if !ok || uid == "" {
		return "", false
	}
	return uid, true
}

func TenantIDFromRequest(r *http.Request) (string, bool) {
	tid, ok := r.Context().Value(tenantIDKey).(string)
	if !ok || tid == "" {
		return "", false
	}
	return tid, true
}

func RoleFromRequest(r *http.Request) (models.UserRole, bool) {
	role, ok := r.Context().Value(userRoleKey).(models.UserRole)
	if !ok || !models.IsValidRole(role) {
		return "", false
	}
	return role, true
}
