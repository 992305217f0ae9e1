package handlers

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/crucial707/changelog-browser/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by the name clients send.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"url", "json"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// countryParams are the path parameters naming a country, optionally within
// an archive year.
type countryParams struct {
	Code string `url:"code" validate:"omitempty,len=2,alpha"`
	Year string `url:"year" validate:"omitempty,len=4,numeric"`
}

// ParseCriteria reads ?action=&entity=&q= and validates them.
func ParseCriteria(r *http.Request) (models.FilterCriteria, error) {
	q := r.URL.Query()
	c := models.FilterCriteria{
		Action:     strings.ToLower(strings.TrimSpace(q.Get("action"))),
		EntityType: strings.ToLower(strings.TrimSpace(q.Get("entity"))),
		Term:       q.Get("q"),
	}
	if err := validate.Struct(c); err != nil {
		return models.FilterCriteria{}, err
	}
	return c, nil
}

// parseCountryParams reads {code} and {year} from the route. year is 0 when
// the route has none.
func parseCountryParams(r *http.Request) (code string, year int, err error) {
	p := countryParams{
		Code: strings.TrimSpace(chi.URLParam(r, "code")),
		Year: strings.TrimSpace(chi.URLParam(r, "year")),
	}
	if err := validate.Struct(p); err != nil {
		return "", 0, err
	}
	if p.Year != "" {
		year, _ = strconv.Atoi(p.Year)
	}
	return strings.ToUpper(p.Code), year, nil
}
