package archive

import "time"

type ListFilter struct {
	Standard *string
	From     *time.Time
	To       *time.Time
	Limit    int
}

func (filter ListFilter) SetStandard(v string) ListFilter {
	filter.Standard = &v
	return filter
}

func (filter ListFilter) SetFrom(v time.Time) ListFilter {
	filter.From = &v
	return filter
}

func (filter ListFilter) SetTo(v time.Time) ListFilter {
	filter.To = &v
	return filter
}

func (filter ListFilter) SetLimit(v int) ListFilter {
	filter.Limit = v
	return filter
}
