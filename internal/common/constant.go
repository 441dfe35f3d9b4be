package common

// AccessTokenCookieName is the cookie that carries the signed session token.
const AccessTokenCookieName = "access_token"
