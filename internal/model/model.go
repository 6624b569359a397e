package model

import (
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleStudent  Role = "student"
	RoleAlumni   Role = "alumni"
	RoleOffice   Role = "office"
	RoleDirector Role = "director"
)

// ParseRole maps the stored role field onto the closed set of roles.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleAlumni:
		return RoleAlumni, nil
	case RoleOffice:
		return RoleOffice, nil
	case RoleDirector:
		return RoleDirector, nil
	default:
		return "", ErrUnknownRole
	}
}

// CanUseStudentPortal is true for current students and alumni.
func (r Role) CanUseStudentPortal() bool {
	return r == RoleStudent || r == RoleAlumni
}

type User struct {
	UID   string
	Email string
}

type Profile struct {
	UID  string
	Role Role
}

type Student struct {
	Birthday  string `json:"birthday"`
	Course    string `json:"course"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Phone     string `json:"phone"`
	StudentID string `json:"studentId"`
}

type OfficeOption struct {
	Name         string `json:"name" validate:"required"`
	Office       string `json:"office,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	OfficeCode   string `json:"officeCode,omitempty"`
	Requirements string `json:"requirements,omitempty"`
}

type OfficeAccount struct {
	Username     string
	Office       string
	PasswordHash string
}
