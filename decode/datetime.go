package decode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/CrestNiraj12/feedmirror/domain"
)

// DatetimeDecoder is the name of the nanosecond timestamp decoder.
const DatetimeDecoder = "DatetimeType"

// DecodeDatetime converts nanoseconds since the epoch to a UTC time at
// millisecond precision, rounding toward negative infinity.
func DecodeDatetime(ns int64) time.Time {
	ms := ns / int64(time.Millisecond)
	if ns%int64(time.Millisecond) < 0 {
		ms--
	}
	return time.UnixMilli(ms).UTC()
}

func datetime(v any) (any, error) {
	var ns int64
	var err error
	switch x := v.(type) {
	case json.Number:
		ns, err = x.Int64()
	case string:
		ns, err = strconv.ParseInt(x, 10, 64)
	case float64:
		ns = int64(x)
	case int64:
		ns = x
	case int:
		ns = int64(x)
	default:
		return nil, fmt.Errorf("%w: timestamp: unexpected %T", domain.ErrDecode, v)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp %v: %v", domain.ErrDecode, v, err)
	}
	return DecodeDatetime(ns), nil
}
