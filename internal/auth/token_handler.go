package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// HandleToken handles the token endpoint for the password grant
// @Summary Token Endpoint
// @Description Exchange a user's credentials for a bearer token on behalf of a registered API client
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "Grant type: password"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client Secret"
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /oauth/token [post]
func (o *OAuthService) HandleToken(c *gin.Context) {
	if err := o.server.HandleTokenRequest(c.Writer, c.Request); err != nil {
		log.WithError(err).Warn("OAuth2 token request failed")
		if !c.Writer.Written() {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
	}
}
