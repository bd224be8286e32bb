package graphql

import (
	"strings"
	"testing"
)

func TestCommonQueriesAreValid(t *testing.T) {
	for name, query := range CommonQueries {
		t.Run(name, func(t *testing.T) {
			if err := ValidateQuery(query); err != nil {
				t.Errorf("ValidateQuery(%s) = %v", name, err)
			}
		})
	}
}

func TestCommonQuery_unknown(t *testing.T) {
	_, err := CommonQuery("no_such_query")
	if err == nil {
		t.Fatal("CommonQuery() = nil, want error")
	}

	// The error lists the available names for self-correction.
	if !strings.Contains(err.Error(), "current_user") {
		t.Errorf("error %q does not list available query names", err)
	}
}

func TestCommonQuery_known(t *testing.T) {
	q, err := CommonQuery("current_user")
	if err != nil {
		t.Fatalf("CommonQuery() = %v", err)
	}

	if !strings.Contains(q, "currentUser") {
		t.Errorf("query %q does not select currentUser", q)
	}
}
