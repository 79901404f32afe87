package utils

import "context"

type contextKey string

const StaffKey contextKey = "staff"

func SetStaffContext(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, StaffKey, username)
}

// GetStaffFromContext returns the authenticated staff username
func GetStaffFromContext(ctx context.Context) (string, bool) {
	staff, ok := ctx.Value(StaffKey).(string)
	return staff, ok && staff != ""
}
