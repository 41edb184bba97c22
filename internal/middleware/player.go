package middleware

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"learning-timer/internal/constants"
	"learning-timer/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const PlayerIDKey = "player_id"

var playerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type PlayerClaims struct {
	PlayerID string `json:"player_id"`
	jwt.RegisteredClaims
}

// PlayerIdentity resolves the player for the request. With a secret configured
// a bearer token (header, or the token query parameter for websockets) is
// required; otherwise X-Player-ID or the player_id query parameter is used,
// falling back to the local player.
func PlayerIdentity(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var playerID string

		if jwtSecret != "" {
			token, err := bearerToken(c)
			if err != nil {
				dto.JsonError(c, http.StatusUnauthorized, err.Error())
				c.Abort()
				return
			}

			playerID, err = parsePlayerToken(token, jwtSecret)
			if err != nil {
				dto.JsonError(c, http.StatusUnauthorized, "Invalid token")
				c.Abort()
				return
			}
		} else {
			playerID = c.GetHeader("X-Player-ID")
			if playerID == "" {
				playerID = c.Query("player_id")
			}
			if playerID == "" {
				playerID = constants.LocalPlayer
			}
		}

		if !playerIDPattern.MatchString(playerID) {
			dto.JsonError(c, http.StatusBadRequest, "Invalid player id")
			c.Abort()
			return
		}

		c.Set(PlayerIDKey, playerID)
		c.Next()
	}
}

func PlayerID(c *gin.Context) string {
	if id := c.GetString(PlayerIDKey); id != "" {
		return id
	}
	return constants.LocalPlayer
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", errors.New("authorization header is required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid authorization header format")
	}
	return parts[1], nil
}

func parsePlayerToken(tokenString, secret string) (string, error) {
	claims := &PlayerClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.PlayerID == "" {
		return "", errors.New("token has no player_id")
	}
	return claims.PlayerID, nil
}
