package dto

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var serverNamePattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ValidationIssue is one schema violation, addressed by request field.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type CreateVpsRequest struct {
	ServerName string `json:"serverName" binding:"required,min=4"`
	AuthMethod string `json:"authMethod" binding:"required,oneof=password ssh-key"`
	AuthValue  string `json:"authValue" binding:"required"`
	CPU        int    `json:"cpu" binding:"required,min=1,max=32"`
	RAM        int    `json:"ram" binding:"required,min=1,max=128"`
	Storage    int    `json:"storage" binding:"required,min=10,max=2000"`
	IPv4       int    `json:"ipv4" binding:"required,min=1,max=10"`
	IPv6       int    `json:"ipv6" binding:"min=0,max=16"`
	Location   string `json:"location" binding:"required,oneof=us-east us-west eu-central asia-east"`
	OS         string `json:"os" binding:"required,oneof=ubuntu debian centos alpine windows-server"`
}

// Validate covers the rules binding tags cannot express: the server name
// charset and the auth method / auth value pairing.
func (r *CreateVpsRequest) Validate() []ValidationIssue {
	var issues []ValidationIssue

	if !serverNamePattern.MatchString(r.ServerName) {
		issues = append(issues, ValidationIssue{
			Field:   "serverName",
			Message: "may only contain letters, digits and hyphens",
		})
	}

	switch r.AuthMethod {
	case "password":
		if len(r.AuthValue) < 8 {
			issues = append(issues, ValidationIssue{
				Field:   "authValue",
				Message: "password must be at least 8 characters",
			})
		}
	case "ssh-key":
		if !strings.HasPrefix(r.AuthValue, "ssh-") {
			issues = append(issues, ValidationIssue{
				Field:   "authValue",
				Message: `SSH key must start with "ssh-"`,
			})
		}
	}

	return issues
}

type ListVpsQuery struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"pageSize,default=10" binding:"min=1,max=100"`
	SortBy    string `form:"sortBy,default=created_at" binding:"oneof=created_at server_name status cpu ram"`
	SortOrder string `form:"sortOrder,default=desc" binding:"oneof=asc desc"`
}

type PowerCommandRequest struct {
	ID      string `json:"id" binding:"required,uuid"`
	Command string `json:"command" binding:"required,oneof=poweron poweroff reboot"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// IssuesFromBindingError converts gin binding failures into per-field
// issues. obj must be the bound struct so field names can be mapped back
// to their json/form tags.
func IssuesFromBindingError(obj interface{}, err error) []ValidationIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationIssue{{Field: "body", Message: "malformed request body"}}
	}

	issues := make([]ValidationIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, ValidationIssue{
			Field:   wireFieldName(obj, fe.StructField()),
			Message: messageForTag(fe),
		})
	}
	return issues
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}

func wireFieldName(obj interface{}, structField string) string {
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(structField); ok {
		for _, key := range []string{"json", "form"} {
			if tag := f.Tag.Get(key); tag != "" && tag != "-" {
				return strings.Split(tag, ",")[0]
			}
		}
	}
	return structField
}
