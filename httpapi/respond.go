package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	goOrg "github.com/MrEthical07/goOrg"
	"github.com/MrEthical07/goOrg/store"
)

type accountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Groups    []string  `json:"groups"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type groupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Users     []string  `json:"users"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// toAccountResponse strips the password hash; it never leaves the API.
func toAccountResponse(acct *store.Account) accountResponse {
	groups := acct.Groups
	if groups == nil {
		groups = []string{}
	}
	return accountResponse{
		ID:        acct.ID,
		Name:      acct.Name,
		Email:     acct.Email,
		Role:      string(acct.Role),
		Groups:    groups,
		CreatedAt: acct.CreatedAt,
		UpdatedAt: acct.UpdatedAt,
	}
}

func toAccountResponses(accounts []*store.Account) []accountResponse {
	out := make([]accountResponse, 0, len(accounts))
	for _, acct := range accounts {
		out = append(out, toAccountResponse(acct))
	}
	return out
}

func toGroupResponse(grp *store.Group) groupResponse {
	users := grp.Users
	if users == nil {
		users = []string{}
	}
	return groupResponse{
		ID:        grp.ID,
		Name:      grp.Name,
		Users:     users,
		CreatedAt: grp.CreatedAt,
		UpdatedAt: grp.UpdatedAt,
	}
}

func toGroupResponses(groups []*store.Group) []groupResponse {
	out := make([]groupResponse, 0, len(groups))
	for _, grp := range groups {
		out = append(out, toGroupResponse(grp))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps engine errors to HTTP statuses. Anything outside the
// known set is a server error and the detail stays out of the response.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, goOrg.ErrInvalidCredentials),
		errors.Is(err, goOrg.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, goOrg.ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, goOrg.ErrAccountNotFound),
		errors.Is(err, goOrg.ErrGroupNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, goOrg.ErrAccountExists),
		errors.Is(err, goOrg.ErrGroupExists),
		errors.Is(err, goOrg.ErrAlreadyMember),
		errors.Is(err, goOrg.ErrNotMember):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, goOrg.ErrAccountInvalid),
		errors.Is(err, goOrg.ErrGroupInvalid),
		errors.Is(err, goOrg.ErrAccountRoleInvalid):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		log.Print("goOrg: request failed: ", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
