package util

import "errors"

var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCatNotFound         = errors.New("cat not found")
	ErrNotCatOwner         = errors.New("only the owner can modify this cat")
	ErrAchievementNotFound = errors.New("achievement not found")

	// 字段级校验错误
	ErrColorHasNoName = errors.New("Для этого цвета нет имени")
	ErrNotAFile       = errors.New("The submitted data was not a file. Check the encoding type on the form.")
	ErrInvalidImage   = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
)

const (
	MsgRequired       = "This field is required."
	MsgBlank          = "This field may not be blank."
	MsgInvalidInteger = "A valid integer is required."
	MsgInvalidList    = "Expected a list of items."
)

// FieldErrors 字段名 -> 错误信息列表，渲染为 400
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

func (e FieldErrors) Error() string {
	return "validation failed"
}
