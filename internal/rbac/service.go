package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridian-commerce/meridian/internal/shared"
)

// Denial reasons. Every check that cannot fully resolve denies; there is
// no partial-credit authorization.
var (
	ErrIdentityNotFound   = errors.New("rbac: identity not found")
	ErrUnknownPermission  = errors.New("rbac: unknown permission")
	ErrMissingPermissions = errors.New("rbac: missing permissions")
)

// Store provides the read operations authorization depends on. Required
// permission names are resolved through it at check time, never from a
// cached name-to-id mapping.
type Store interface {
	GetUserRoleID(ctx context.Context, userID int64) (int64, error)
	GetPermissionID(ctx context.Context, name string) (int64, error)
	CountAssignments(ctx context.Context, roleID int64, permissionIDs []int64) (int64, error)
}

// Verifier decides whether a caller's role holds every required
// permission.
type Verifier struct {
	store  Store
	logger *slog.Logger
}

// NewVerifier constructs a Verifier over the given store.
func NewVerifier(store Store, logger *slog.Logger) *Verifier {
	return &Verifier{store: store, logger: logger}
}

// Authorize allows only when every required permission name resolves to a
// permission held by the caller's role. An empty requirement is vacuously
// allowed. Storage failures deny; the check is never retried.
func (v *Verifier) Authorize(ctx context.Context, userID int64, required ...string) error {
	names := dedupe(required)
	if len(names) == 0 {
		return nil
	}

	roleID, err := v.store.GetUserRoleID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrIdentityNotFound
		}
		v.log("resolve role", userID, err)
		return fmt.Errorf("rbac: resolve role: %w", err)
	}

	permissionIDs := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := v.store.GetPermissionID(ctx, name)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrUnknownPermission, name)
			}
			v.log("resolve permission", userID, err)
			return fmt.Errorf("rbac: resolve permission %s: %w", name, err)
		}
		permissionIDs = append(permissionIDs, id)
	}

	matched, err := v.store.CountAssignments(ctx, roleID, permissionIDs)
	if err != nil {
		v.log("count assignments", userID, err)
		return fmt.Errorf("rbac: count assignments: %w", err)
	}
	if matched != int64(len(permissionIDs)) {
		return ErrMissingPermissions
	}
	return nil
}

func (v *Verifier) log(op string, userID int64, err error) {
	if v.logger != nil {
		v.logger.Error("rbac "+op, slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

// dedupe drops duplicate names while preserving first-seen order, so a
// repeated requirement cannot inflate the count the association match is
// compared against.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
