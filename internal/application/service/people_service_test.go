package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos-api/internal/domain/entity"
	"github.com/sangkips/restaurant-pos-api/internal/domain/enum"
	"github.com/sangkips/restaurant-pos-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableService(t *testing.T) {
	tables := newFakeTableRepo()
	svc := NewTableService(tables)
	ctx := context.Background()

	t1, err := svc.CreateTable(ctx, &TableInput{Name: "T1", Location: " Patio "})
	require.NoError(t, err)
	assert.Equal(t, DefaultTableSeats, t1.Seats)
	assert.Equal(t, "Patio", t1.Location)
	assert.Equal(t, enum.TableStatusEmpty, t1.Status)

	_, err = svc.CreateTable(ctx, &TableInput{Name: "t1"})
	assertCode(t, err, http.StatusConflict)
	_, err = svc.CreateTable(ctx, &TableInput{Name: "T9", Seats: -2})
	assertCode(t, err, http.StatusUnprocessableEntity)

	t1, err = svc.SetStatus(ctx, t1.ID, "in_use")
	require.NoError(t, err)
	assert.Equal(t, enum.TableStatusInUse, t1.Status)
	_, err = svc.SetStatus(ctx, t1.ID, "broken")
	assertCode(t, err, http.StatusUnprocessableEntity)

	_, err = svc.CreateTable(ctx, &TableInput{Name: "T2", Seats: 6})
	require.NoError(t, err)
	busy, err := svc.ListTables(ctx, "in_use")
	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, "T1", busy[0].Name)

	assertCode(t, svc.DeleteTable(ctx, t1.ID), http.StatusConflict)
	_, err = svc.SetStatus(ctx, t1.ID, "empty")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTable(ctx, t1.ID))
	_, err = svc.GetTable(ctx, t1.ID)
	assertCode(t, err, http.StatusNotFound)
}

func newStaffFixture() (*StaffService, *fakeStaffRepo, *fakeUserRepo) {
	roles := newFakeRoleRepo()
	users := newFakeUserRepo(roles)
	staff := newFakeStaffRepo()
	return NewStaffService(passThroughTx{}, staff, users, roles), staff, users
}

func TestStaffService_CreateStaff(t *testing.T) {
	svc, _, users := newStaffFixture()
	ctx := context.Background()

	member, err := svc.CreateStaff(ctx, &CreateStaffInput{
		Name: "Tuấn", Email: "Tuan@Example.com", Password: "password123", Position: "cashier",
	})
	require.NoError(t, err)
	assert.Equal(t, enum.StaffStatusWorking, member.Status)
	assert.False(t, member.HiredAt.IsZero())

	user, _ := users.GetWithRoles(ctx, member.UserID)
	require.NotNil(t, user)
	assert.Equal(t, "tuan@example.com", user.Email)
	assert.Equal(t, enum.UserStatusActive, user.Status)
	assert.True(t, user.HasRole(entity.RoleStaff))
	assert.True(t, user.HasPermission(entity.PermManageInvoices))

	_, err = svc.CreateStaff(ctx, &CreateStaffInput{Name: "Dup", Email: "tuan@example.com", Password: "password123"})
	assertCode(t, err, http.StatusConflict)

	_, err = svc.CreateStaff(ctx, &CreateStaffInput{Email: "x@example.com", Password: "short"})
	assertCode(t, err, http.StatusUnprocessableEntity)
}

func TestStaffService_StatusControlsLogin(t *testing.T) {
	svc, _, users := newStaffFixture()
	ctx := context.Background()
	member, err := svc.CreateStaff(ctx, &CreateStaffInput{Name: "Linh", Email: "linh@example.com", Password: "password123"})
	require.NoError(t, err)

	member, err = svc.UpdateStaffStatus(ctx, member.ID, "left")
	require.NoError(t, err)
	assert.Equal(t, enum.StaffStatusLeft, member.Status)
	user, _ := users.GetByID(ctx, member.UserID)
	assert.Equal(t, enum.UserStatusInactive, user.Status)

	_, err = svc.UpdateStaffStatus(ctx, member.ID, "on_leave")
	require.NoError(t, err)
	user, _ = users.GetByID(ctx, member.UserID)
	assert.Equal(t, enum.UserStatusActive, user.Status)

	_, err = svc.UpdateStaffStatus(ctx, member.ID, "fired")
	assertCode(t, err, http.StatusUnprocessableEntity)

	left := enum.StaffStatusLeft
	page, err := svc.ListStaff(ctx, pagination.DefaultPagination(), &left)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestStaffService_DeleteStaffRemovesLogin(t *testing.T) {
	svc, staff, users := newStaffFixture()
	ctx := context.Background()
	member, err := svc.CreateStaff(ctx, &CreateStaffInput{Name: "Nam", Email: "nam@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStaff(ctx, member.ID))
	gone, _ := staff.GetByID(ctx, member.ID)
	assert.Nil(t, gone)
	user, _ := users.GetByID(ctx, member.UserID)
	assert.Nil(t, user)

	assertCode(t, svc.DeleteStaff(ctx, member.ID), http.StatusNotFound)
}

func TestUserService(t *testing.T) {
	roles := newFakeRoleRepo()
	users := newFakeUserRepo(roles)
	svc := NewUserService(passThroughTx{}, users, roles)
	ctx := context.Background()

	admin := &entity.User{Name: "Admin", Email: "admin@example.com", Status: enum.UserStatusActive}
	other := &entity.User{Name: "Bình", Email: "binh@example.com", Status: enum.UserStatusActive}
	require.NoError(t, users.Create(ctx, admin))
	require.NoError(t, users.Create(ctx, other))

	updated, err := svc.UpdateUserRoles(ctx, other.ID, []string{entity.RoleStaff, entity.RoleAdmin, entity.RoleStaff})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{entity.RoleAdmin, entity.RoleStaff}, updated.RoleNames())

	_, err = svc.UpdateUserRoles(ctx, other.ID, []string{entity.RoleStaff, "owner"})
	assertCode(t, err, http.StatusUnprocessableEntity)
	_, err = svc.UpdateUserRoles(ctx, uuid.New(), []string{entity.RoleStaff})
	assertCode(t, err, http.StatusNotFound)

	_, err = svc.UpdateUserStatus(ctx, admin.ID, admin.ID, "inactive")
	assertCode(t, err, http.StatusBadRequest)
	updated, err = svc.UpdateUserStatus(ctx, admin.ID, other.ID, "inactive")
	require.NoError(t, err)
	assert.Equal(t, enum.UserStatusInactive, updated.Status)

	assertCode(t, svc.DeleteUser(ctx, admin.ID, admin.ID), http.StatusBadRequest)
	require.NoError(t, svc.DeleteUser(ctx, admin.ID, other.ID))
	assertCode(t, svc.DeleteUser(ctx, admin.ID, other.ID), http.StatusNotFound)

	all, err := svc.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
