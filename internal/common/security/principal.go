package security

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"todo_app/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the identity a verified token carries for one request.
type Principal struct {
	Username string
	ID       int64
	Role     string
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

// PrincipalFromClaims builds a Principal from decoded token claims. The
// subject and id claims are required; role may be empty.
func PrincipalFromClaims(claims jwt.MapClaims) (Principal, error) {
	username, err := claims.GetSubject()
	if err != nil {
		return Principal{}, err
	}
	if username == "" {
		return Principal{}, errors.New("sub claim is missing")
	}

	id, err := userIDFromClaim(claims[claimUserID])
	if err != nil {
		return Principal{}, err
	}

	var role string
	if raw, ok := claims[claimRole]; ok && raw != nil {
		if role, ok = raw.(string); !ok {
			return Principal{}, errors.New("role claim is not a string")
		}
	}

	return Principal{Username: username, ID: id, Role: role}, nil
}

func userIDFromClaim(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, errors.New("id claim is missing")
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, fmt.Errorf("id claim %v is not an integer", v)
		}
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("id claim %q is not an integer", v)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("id claim has unsupported type %T", raw)
	}
}
