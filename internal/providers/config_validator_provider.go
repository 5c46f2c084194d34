package providers

import (
	"github.com/gookit/validate"
	"goodsync/internal/structures"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}
	if cv.conf.WebServer.Enabled && (cv.conf.WebServer.Host == "" || cv.conf.WebServer.Port <= 0) {
		return validate.Errors{"webServer": {"required": "webServer.host and webServer.port are required when the server is enabled"}}
	}
	return nil
}
