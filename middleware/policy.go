package middleware

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quasydwekat2/task-management-system/models"
	"github.com/quasydwekat2/task-management-system/utils"
)

// Access policy checks. Every mutation goes through one of these before any
// store write, so a denial never leaves partial state behind.

// Caller resolves the authenticated caller from the request context.
func Caller(ctx context.Context) (*utils.Claims, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, models.NewAuthenticationError("Authentication required")
	}
	return claims, nil
}

func RequireAdmin(claims *utils.Claims) error {
	if claims.Role != string(models.RoleAdmin) {
		return models.NewAuthorizationError("Access denied. Admins only.")
	}
	return nil
}

func RequireSelfOrAdmin(claims *utils.Claims, targetUserID string) error {
	if claims.Role == string(models.RoleAdmin) || claims.UserID == targetUserID {
		return nil
	}
	return models.NewAuthorizationError("Access denied")
}

func RequireAssignedOrAdmin(claims *utils.Claims, task *models.Task) error {
	if claims.Role == string(models.RoleAdmin) || claims.UserID == task.AssignedTo.Hex() {
		return nil
	}
	return models.NewAuthorizationError("Access denied")
}

func RequireProjectMemberOrAdmin(claims *utils.Claims, project *models.Project) error {
	if claims.Role == string(models.RoleAdmin) {
		return nil
	}
	callerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.NewAuthorizationError("Access denied")
	}
	for _, s := range project.Students {
		if s == callerID {
			return nil
		}
	}
	return models.NewAuthorizationError("Access denied")
}
