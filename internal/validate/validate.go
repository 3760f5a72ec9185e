package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var reID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// maxbytes=N bounds the UTF-8 length of a string, unlike max which counts runes
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return v
}

// Struct runs the `validate` tags on s and flattens failures into one
// readable error.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// ID validates a document identifier taken from a path parameter.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Count parses a non-negative result count.
func Count(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Page returns a 1-based page and page size; zero size means "no paging".
func Page(page, size string) (int, int) {
	p, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || p < 1 {
		p = 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(size))
	if err != nil || n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return p, n
}

// image upload types and the extension each is stored with
var imageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// ImageType reports the file extension for an accepted image MIME type.
func ImageType(mime string) (string, bool) {
	ext, ok := imageTypes[strings.ToLower(strings.TrimSpace(mime))]
	return ext, ok
}
