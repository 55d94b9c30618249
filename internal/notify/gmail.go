package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type oauth2Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type googleCredentialsFile struct {
	Installed *oauth2Credentials `json:"installed"`
	Web       *oauth2Credentials `json:"web"`
}

// Gmail sends notifications through the Gmail API on behalf of the account
// whose OAuth token is cached at tokenPath. The interactive consent flow is
// out of scope here; the token file must already exist.
type Gmail struct {
	service *gmail.Service
}

func NewGmail(ctx context.Context, credentialsJSON, tokenPath string) (*Gmail, error) {
	creds, err := parseGoogleCredentials(credentialsJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth2 credentials: %w", err)
	}

	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     google.Endpoint,
	}

	token, err := loadTokenFromFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth2 token from %s: %w", tokenPath, err)
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Gmail{service: service}, nil
}

func (g *Gmail) Send(_ context.Context, recipient, subject, body string) error {
	raw := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s", recipient, subject, body)
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}
	if _, err := g.service.Users.Messages.Send("me", msg).Do(); err != nil {
		return fmt.Errorf("gmail send to %s: %w", recipient, err)
	}
	return nil
}

func loadTokenFromFile(filename string) (*oauth2.Token, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(file).Decode(token)
	return token, err
}

// parseGoogleCredentials accepts either a bare client_id/client_secret object
// or the Google Cloud Console download format ("installed" or "web" section).
func parseGoogleCredentials(credentialsJSON string) (*oauth2Credentials, error) {
	var direct oauth2Credentials
	if err := json.Unmarshal([]byte(credentialsJSON), &direct); err == nil {
		if direct.ClientID != "" && direct.ClientSecret != "" {
			return &direct, nil
		}
	}

	var file googleCredentialsFile
	if err := json.Unmarshal([]byte(credentialsJSON), &file); err != nil {
		return nil, fmt.Errorf("failed to parse credentials as Google format: %w", err)
	}
	if file.Installed != nil {
		return file.Installed, nil
	}
	if file.Web != nil {
		return file.Web, nil
	}
	return nil, fmt.Errorf("no valid credentials found in JSON - expected 'installed' or 'web' section")
}
