package digit

import (
	"time"

	"github.com/google/uuid"
)

// RequestInfo is the request envelope every registry call carries. The
// gateway strips and reissues auth, so the token travels empty here.
type RequestInfo struct {
	APIID     string    `json:"apiId,omitempty"`
	Ver       string    `json:"ver,omitempty"`
	TS        int64     `json:"ts,omitempty"`
	MsgID     string    `json:"msgId,omitempty"`
	AuthToken string    `json:"authToken"`
	UserInfo  *UserInfo `json:"userInfo,omitempty"`
}

type UserInfo struct {
	TenantID string `json:"tenantId"`
	UUID     string `json:"uuid"`
	Type     string `json:"type,omitempty"`
}

// ResponseInfo is the response envelope returned by registry services.
type ResponseInfo struct {
	APIID  string `json:"apiId,omitempty"`
	Ver    string `json:"ver,omitempty"`
	TS     int64  `json:"ts,omitempty"`
	Status string `json:"status,omitempty"`
}

// NewRequestInfo builds the envelope for one outbound call. Each call gets a
// fresh user uuid; the registry only requires the field to be present.
func NewRequestInfo(tenantID string) RequestInfo {
	return RequestInfo{
		APIID:     "fhirsync",
		Ver:       "1.0",
		TS:        time.Now().UnixMilli(),
		MsgID:     uuid.NewString(),
		AuthToken: "",
		UserInfo: &UserInfo{
			TenantID: tenantID,
			UUID:     uuid.NewString(),
			Type:     "SYSTEM",
		},
	}
}

// RequestWrapper is the body for calls that carry only the envelope.
type RequestWrapper struct {
	RequestInfo RequestInfo `json:"RequestInfo"`
}
