package vocab

import (
	"errors"
	"fmt"
)

const (
	CodeUnknownCategory       = "unknown_category"
	CodeMalformedAliasPattern = "malformed_alias_pattern"
	CodeInvalidVocabulary     = "invalid_vocabulary"
	CodeInvalidRouter         = "invalid_router"
)

type Error struct {
	Code     string
	Category string
	Detail   string
}

func (e *Error) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Category, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func NewUnknownCategory(category string) *Error {
	return &Error{Code: CodeUnknownCategory, Category: category, Detail: "category is not defined"}
}

func NewMalformedAliasPattern(category, pattern string, err error) *Error {
	return &Error{Code: CodeMalformedAliasPattern, Category: category, Detail: fmt.Sprintf("pattern %q: %v", pattern, err)}
}

func NewInvalidVocabulary(category, detail string) *Error {
	return &Error{Code: CodeInvalidVocabulary, Category: category, Detail: detail}
}

func NewInvalidRouter(category, detail string) *Error {
	return &Error{Code: CodeInvalidRouter, Category: category, Detail: detail}
}

func IsUnknownCategory(err error) bool {
	return hasCode(err, CodeUnknownCategory)
}

func IsMalformedAliasPattern(err error) bool {
	return hasCode(err, CodeMalformedAliasPattern)
}

func hasCode(err error, code string) bool {
	var ve *Error
	return errors.As(err, &ve) && ve.Code == code
}
