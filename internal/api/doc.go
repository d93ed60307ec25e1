// Package api implements the HTTP surface of the banking service. Every
// request parameter travels as a request header; successful responses carry
// the resource representation and failures the uniform error descriptor
// with the numeric case code.
package api
