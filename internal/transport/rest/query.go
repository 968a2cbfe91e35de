package rest

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/heartmarshall/entity-events/internal/domain"
	"github.com/heartmarshall/entity-events/internal/service/matching"
)

// queryParser collects every malformed parameter before failing.
type queryParser struct {
	q    url.Values
	errs []domain.FieldError
}

func (p *queryParser) time(key string) *time.Time {
	v := p.q.Get(key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		p.errs = append(p.errs, domain.FieldError{Field: key, Message: "must be an RFC 3339 timestamp"})
		return nil
	}
	return &t
}

func (p *queryParser) bool(key string) *bool {
	v := p.q.Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, domain.FieldError{Field: key, Message: "must be true or false"})
		return nil
	}
	return &b
}

func (p *queryParser) id(key string) *int64 {
	v := p.q.Get(key)
	if v == "" {
		return nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		p.errs = append(p.errs, domain.FieldError{Field: key, Message: "must be a positive integer"})
		return nil
	}
	return &id
}

func (p *queryParser) int(key string) int {
	v := p.q.Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, domain.FieldError{Field: key, Message: "must be an integer"})
		return 0
	}
	return n
}

func (p *queryParser) err() error {
	if len(p.errs) > 0 {
		return &domain.ValidationError{Errors: p.errs}
	}
	return nil
}

// parseFilter reads start, end, include_expired, actor, seen, mark_seen and
// limit from the query string.
func parseFilter(r *http.Request) (matching.Filter, error) {
	p := &queryParser{q: r.URL.Query()}
	f := matching.Filter{
		Start:   p.time("start"),
		End:     p.time("end"),
		ActorID: p.id("actor"),
		Seen:    p.bool("seen"),
		Limit:   p.int("limit"),
	}
	if v := p.bool("include_expired"); v != nil {
		f.IncludeExpired = *v
	}
	if v := p.bool("mark_seen"); v != nil {
		f.MarkSeen = *v
	}
	return f, p.err()
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}
