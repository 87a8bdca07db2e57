package client

import "github.com/junyouava/openapi-sdk-go/signature"

// RegisterInfo is the body of a register call.
type RegisterInfo struct {
	PhoneNumber string `json:"phone_number"`
}

// OpenIDToken identifies an end user by open id.
type OpenIDToken struct {
	OpenID string `json:"open_id"`
}

// EWTBizNoInfo identifies an EWT business order.
type EWTBizNoInfo struct {
	EWTBizNo string `json:"ewt_biz_no"`
}

// SignatureWithOpenAuth is a request signature together with the open
// auth token returned by AuthCMT.
type SignatureWithOpenAuth struct {
	signature.Signature
	OpenAuth string `json:"open_auth"`
}
