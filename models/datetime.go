package models

import (
	"errors"
	"strconv"
	"time"

	"bitbucket.org/artplim/erp_backend/utils"
)

// Datetime is a time.Time that accepts every wire date layout the filter
// layer accepts, including date-only strings from the SPA's date pickers.
type Datetime time.Time

func (d Datetime) Time() time.Time { return time.Time(d) }

func (d Datetime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Time(d).Format(time.RFC3339))), nil
}

func (d *Datetime) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("date must be string")
	}
	t, err := utils.ParseDate(str)
	if err != nil {
		return err
	}
	*d = Datetime(t)
	return nil
}
