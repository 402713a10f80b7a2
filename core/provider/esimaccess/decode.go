package esimaccess

import (
	"encoding/json"
	"errors"
)

// DecodePackageList decodes a package list response body. It is shared by the
// live client and snapshot replay, so both paths reject the same bodies.
func DecodePackageList(raw []byte) ([]Package, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, newFetchError(ErrorDecode, 0, "", "malformed response body", err)
	}
	if !env.Success {
		return nil, newFetchError(ErrorProvider, 0, env.ErrorCode, env.ErrorMsg, nil)
	}
	if env.Obj == nil {
		return nil, newFetchError(ErrorDecode, 0, "", "response has no obj", errors.New("missing obj"))
	}
	if env.Obj.PackageList == nil {
		return []Package{}, nil
	}
	return env.Obj.PackageList, nil
}
