// Request DTOs and validation for the members API. The HTTP layer
// guarantees required fields and phone format before the store is
// reached; the store itself only guards against malformed ids.

package server

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mesh-intelligence/rollcall/pkg/types"
)

var validate = validator.New()

// createMemberRequest is the POST /api/members payload. Lunch is typed
// any because kiosks send true, "true", 1, or "1".
type createMemberRequest struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required,numeric,len=11,startswith=010"`
	GradeClass string `json:"gradeClass"`
	UserNo     string `json:"userNo"`
	Gender     string `json:"gender"`
	Lunch      any    `json:"lunch"`
}

// normalize trims whitespace before validation.
func (r *createMemberRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.GradeClass = strings.TrimSpace(r.GradeClass)
	r.UserNo = strings.TrimSpace(r.UserNo)
	r.Gender = strings.TrimSpace(r.Gender)
}

// data converts the request to store input.
func (r *createMemberRequest) data() types.MemberData {
	return types.MemberData{
		Name:       r.Name,
		Phone:      r.Phone,
		GradeClass: r.GradeClass,
		UserNo:     r.UserNo,
		Gender:     r.Gender,
		Lunch:      types.ParseFlag(r.Lunch),
	}
}

// updateMemberRequest is the PUT /api/members/:id payload. Nil fields
// are left unchanged.
type updateMemberRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone" validate:"omitempty,numeric,len=11,startswith=010"`
	GradeClass *string `json:"gradeClass"`
	UserNo     *string `json:"userNo"`
	Gender     *string `json:"gender"`
	Lunch      any     `json:"lunch"`
}

// normalize trims whitespace on present fields before validation.
func (r *updateMemberRequest) normalize() {
	for _, p := range []*string{r.Name, r.Phone, r.GradeClass, r.UserNo, r.Gender} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
}

// patch converts the request to a store patch. An absent (or null)
// lunch value leaves the flag unchanged.
func (r *updateMemberRequest) patch() types.MemberPatch {
	p := types.MemberPatch{
		Name:       r.Name,
		Phone:      r.Phone,
		GradeClass: r.GradeClass,
		UserNo:     r.UserNo,
		Gender:     r.Gender,
	}
	if r.Lunch != nil {
		flag := types.ParseFlag(r.Lunch)
		p.Lunch = &flag
	}
	return p
}
