package id

import (
	"crypto/md5"
	"io"

	"github.com/asaskevich/govalidator"
	foxuuid "github.com/fox-one/pkg/uuid"
	"github.com/gofrs/uuid"
)

// GenTraceID new normal traceID
func GenTraceID() string {
	return GenUUIDString()
}

// GenUUIDString new uuid
func GenUUIDString() string {
	return uuid.Must(uuid.NewV4()).String()
}

// Derive trace id of a follow-up transfer, stable for the same trace and action
func Derive(traceID, action string) string {
	if traceID == "" {
		return GenTraceID()
	}

	if govalidator.IsUUID(traceID) {
		return foxuuid.Modify(traceID, action)
	}

	return UUIDFromString(traceID + ":" + action)
}

// UUIDFromString  new uuid string from string
func UUIDFromString(text string) string {
	h := md5.New()
	_, _ = io.WriteString(h, text)
	sum := h.Sum(nil)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum).String()
}
