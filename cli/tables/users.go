package tables

import (
	"time"

	"github.com/liora-cosmetic/liora/cli/api"
	"github.com/liora-cosmetic/liora/pkg/listctl"
)

var (
	UserRoles    = []string{api.RoleAdmin, api.RoleCustomer}
	UserStatuses = []string{api.UserActive, api.UserBanned}
)

func userID(u api.User) string { return u.ID }

// Users is the admin user table.
func Users(deps Deps) *Table[api.User] {
	res := deps.Client.Users
	loc := location(deps)
	return &Table[api.User]{
		Name:     "users",
		Title:    "Người dùng",
		Resource: res,
		ID:       userID,
		Columns: []Column[api.User]{
			{Key: "fullName", Title: "Họ tên", Width: 22, Sortable: true, Cell: func(u api.User) string { return u.FullName }},
			{Key: "email", Title: "Email", Width: 26, Sortable: true, Cell: func(u api.User) string { return u.Email }},
			{Key: "phone", Title: "Điện thoại", Width: 12, Cell: func(u api.User) string { return u.Phone }},
			{Key: "role", Title: "Vai trò", Width: 10, Sortable: true, Cell: func(u api.User) string { return u.Role }},
			{Key: "status", Title: "Trạng thái", Width: 10, Sortable: true, Cell: func(u api.User) string { return u.Status }},
			{Key: "createdAt", Title: "Ngày tạo", Width: 17, Sortable: true, Cell: func(u api.User) string { return formatTime(u.CreatedAt, loc) }},
		},
		Filters: []listctl.Filter[api.User]{
			{Name: "role", Kind: listctl.FilterEnum, Options: UserRoles, Value: func(u api.User) any { return u.Role }},
			{Name: "status", Kind: listctl.FilterEnum, Options: UserStatuses, Value: func(u api.User) any { return u.Status }},
			{Name: "from", Kind: listctl.FilterDateFrom, Time: func(u api.User) time.Time { return u.CreatedAt }},
			{Name: "to", Kind: listctl.FilterDateTo, Time: func(u api.User) time.Time { return u.CreatedAt }},
		},
		Search: func(u api.User, term string) bool {
			return listctl.ContainsFold(term, u.FullName, u.Email, u.Phone)
		},
		RowActions: []listctl.RowAction[api.User]{
			viewAction(deps, res, userID),
			verbAction(ActionBan, api.VerbBan, res, userID, func(u api.User) bool { return !u.Banned() }),
			verbAction(ActionUnban, api.VerbUnban, res, userID, api.User.Banned),
		},
		BulkActions: []listctl.BulkAction{statusBulk(res, UserStatuses)},
		BulkChoices: map[string][]string{BulkStatus: UserStatuses},
	}
}
