package request

import "time"

type CustomerRequest struct {
	Name     string     `json:"name" binding:"required,max=100"`
	Phone    *string    `json:"phone" binding:"omitempty,max=20"`
	Email    *string    `json:"email" binding:"omitempty,email"`
	JoinedAt *time.Time `json:"joined_at"`
}

type UpdateCustomerRequest struct {
	Name     string     `json:"name" binding:"max=100"`
	Phone    *string    `json:"phone" binding:"omitempty,max=20"`
	Email    *string    `json:"email" binding:"omitempty,email"`
	JoinedAt *time.Time `json:"joined_at"`
}

type PointsRequest struct {
	Points int64 `json:"points" binding:"required,min=1"`
}

type CreateStaffRequest struct {
	Name     string     `json:"name" binding:"required,max=100"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=8"`
	Phone    string     `json:"phone" binding:"max=20"`
	Position string     `json:"position" binding:"max=100"`
	HiredAt  *time.Time `json:"hired_at"`
}

type UpdateStaffRequest struct {
	Name     *string    `json:"name" binding:"omitempty,max=100"`
	Phone    *string    `json:"phone" binding:"omitempty,max=20"`
	Position *string    `json:"position" binding:"omitempty,max=100"`
	HiredAt  *time.Time `json:"hired_at"`
}

type StaffStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=working on_leave left"`
}

type UserRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,required"`
}

type UserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive pending_verify"`
}
