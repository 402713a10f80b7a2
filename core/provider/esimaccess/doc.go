// Package esimaccess is a client for the eSIM Access open API package catalog.
//
// Every request is a signed JSON POST. The signature headers are:
//
//	RT-AccessCode  account access code
//	RT-RequestID   random uuid
//	RT-Timestamp   unix milliseconds
//	RT-Signature   hex(HMAC-SHA256(secret, timestamp + requestID + accessCode + body))
//
// Responses share the envelope {success, errorCode, errorMsg, obj}. Any transport
// failure, non-2xx status, success=false or undecodable body is reported as a
// *FetchError carrying a category and whether a retry could help.
//
// DecodePackageList is exported so archived snapshots are decoded exactly like live
// responses.
package esimaccess
