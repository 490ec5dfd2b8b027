package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/saikalpataru/sadhana/core"
	"github.com/saikalpataru/sadhana/core/user"
)

var (
	appName         string
	accessTokenTTL  time.Duration
	defaultTokenTTL time.Duration

	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
	contextUserKey = "user"
)

// ConfigureAuth loads the JWT signing settings. It must be called before any
// token is issued or verified; NewServer does it on setup.
func ConfigureAuth(conf *core.Config) {
	appName = conf.AppName
	accessTokenTTL = conf.AccessTokenExpirationDelta
	defaultTokenTTL = conf.DefaultTokenExpirationDelta
	appJWTConfig.SigningKey = conf.SecretKey
	appJWTConfig.SigningMethod = conf.SigningAlgorithm
}

// Claims represents the authorization claims transmitted via a JWT.
// Subject carries the user's email.
type Claims struct {
	jwt.StandardClaims
	IsAdmin bool `json:"is_admin,omitempty"`
}

func GetUserClaims(usr user.User, ttl ...time.Duration) *Claims {
	now := time.Now()

	delta := defaultTokenTTL
	if len(ttl) > 0 {
		delta = ttl[0]
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   usr.Email,
			ExpiresAt: now.Add(delta).Unix(),
			IssuedAt:  now.Unix(),
		},
		IsAdmin: usr.IsAdmin,
	}
	return claims
}

func authenticate(ctx echo.Context, email, pwd string, svc user.Service) (*Claims, user.User, error) {
	usr, err := svc.GetByEmail(ctx.Request().Context(), email)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return nil, user.User{}, errInvalidCredentials
		}
		return nil, user.User{}, errors.Wrap(err, "finding user by email")
	}
	if !usr.CheckPassword(pwd) {
		return nil, user.User{}, errInvalidCredentials
	}
	return GetUserClaims(usr, accessTokenTTL), usr, nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc user.Service, clms ...Claims) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return user.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	usr, err := svc.GetByEmail(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errUnauthorized
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
