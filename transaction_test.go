package neon

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

func batchResponse(commands ...string) string {
	out := `{"results": [`
	for i, cmd := range commands {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{
			"rows": [{"i": "%d"}],
			"fields": [{"name": "i", "dataTypeID": 23, "tableID": 0, "columnID": 0, "dataTypeSize": 4, "dataTypeModifier": -1, "format": "text"}],
			"rowCount": 1,
			"rowAsArray": false,
			"command": "%s"
		}`, i, cmd)
	}
	return out + `]}`
}

func TestTransactionOrder(t *testing.T) {
	client, cap := newTestClient(t, http.StatusOK, batchResponse("SELECT", "INSERT 0 1", "SELECT"))

	statements := []Statement{
		Stmt("SELECT 1"),
		Stmt("INSERT INTO t (v) VALUES ($1)", 42),
		Stmt("SELECT count(*) FROM t"),
	}
	results, err := client.Transaction(context.Background(), statements, nil)
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, want := range []string{"SELECT", "INSERT 0 1", "SELECT"} {
		if results[i].Command != want {
			t.Errorf("results[%d].Command = %q, want %q", i, results[i].Command, want)
		}
		if results[i].Rows[0]["i"] != int64(i) {
			t.Errorf("results[%d] out of order: %#v", i, results[i].Rows[0])
		}
	}

	var body struct {
		Queries []struct {
			Query  string    `json:"query"`
			Params []*string `json:"params"`
		} `json:"queries"`
	}
	cap.lastBody(t, &body)
	if len(body.Queries) != 3 {
		t.Fatalf("wire batch has %d queries, want 3", len(body.Queries))
	}
	if body.Queries[1].Query != "INSERT INTO t (v) VALUES ($1)" {
		t.Errorf("wire query order broken: %q", body.Queries[1].Query)
	}
	if len(body.Queries[1].Params) != 1 || *body.Queries[1].Params[0] != "42" {
		t.Errorf("wire params = %#v, want [\"42\"]", body.Queries[1].Params)
	}

	if cap.count() != 1 {
		t.Errorf("batch made %d requests, want 1", cap.count())
	}
}

func TestTransactionEmpty(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"results": []}`)

	results, err := client.Transaction(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for an empty batch", len(results))
	}
}

func TestTransactionDefaultHeaders(t *testing.T) {
	client, cap := newTestClient(t, http.StatusOK, batchResponse("SELECT"))

	if _, err := client.Transaction(context.Background(), []Statement{Stmt("SELECT 1")}, nil); err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}

	headers := cap.lastHeader(t)
	if _, ok := headers["Neon-Batch-Isolation-Level"]; ok {
		t.Error("Neon-Batch-Isolation-Level sent without an isolation level")
	}
	if got := headers.Get("Neon-Batch-Read-Only"); got != "false" {
		t.Errorf("Neon-Batch-Read-Only = %q, want %q", got, "false")
	}
	if got := headers.Get("Neon-Batch-Deferrable"); got != "false" {
		t.Errorf("Neon-Batch-Deferrable = %q, want %q", got, "false")
	}
}

func TestTransactionConfiguredHeaders(t *testing.T) {
	client, cap := newTestClient(t, http.StatusOK, batchResponse("SELECT"))

	opts := &TransactionOptions{
		IsolationLevel: IsolationSerializable,
		ReadOnly:       true,
		Deferrable:     true,
	}
	if _, err := client.Transaction(context.Background(), []Statement{Stmt("SELECT 1")}, opts); err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}

	headers := cap.lastHeader(t)
	if got := headers.Get("Neon-Batch-Isolation-Level"); got != "Serializable" {
		t.Errorf("Neon-Batch-Isolation-Level = %q, want %q", got, "Serializable")
	}
	if got := headers.Get("Neon-Batch-Read-Only"); got != "true" {
		t.Errorf("Neon-Batch-Read-Only = %q, want %q", got, "true")
	}
	if got := headers.Get("Neon-Batch-Deferrable"); got != "true" {
		t.Errorf("Neon-Batch-Deferrable = %q, want %q", got, "true")
	}
}

func TestTransactionDeferrableValidation(t *testing.T) {
	levels := []IsolationLevel{
		"",
		IsolationReadUncommitted,
		IsolationReadCommitted,
		IsolationRepeatableRead,
		IsolationSerializable,
	}
	for _, level := range levels {
		for _, readOnly := range []bool{false, true} {
			name := fmt.Sprintf("%s readOnly=%t", level, readOnly)
			if level == "" {
				name = "unset" + name
			}
			t.Run(name, func(t *testing.T) {
				client, cap := newTestClient(t, http.StatusOK, batchResponse("SELECT"))
				opts := &TransactionOptions{
					IsolationLevel: level,
					ReadOnly:       readOnly,
					Deferrable:     true,
				}
				_, err := client.Transaction(context.Background(), []Statement{Stmt("SELECT 1")}, opts)

				allowed := level == IsolationSerializable && readOnly
				if allowed {
					if err != nil {
						t.Fatalf("Transaction returned error: %v", err)
					}
					return
				}
				if err == nil {
					t.Fatal("deferrable batch accepted outside serializable read-only")
				}
				if !IsTransactionConfigError(err) {
					t.Errorf("error kind = %v, want transaction config error", err)
				}
				if cap.count() != 0 {
					t.Error("a network call was made despite the invalid configuration")
				}
			})
		}
	}
}

func TestTransactionInvalidIsolationLevel(t *testing.T) {
	client, cap := newTestClient(t, http.StatusOK, batchResponse("SELECT"))

	opts := &TransactionOptions{IsolationLevel: IsolationLevel("Chaotic")}
	_, err := client.Transaction(context.Background(), []Statement{Stmt("SELECT 1")}, opts)
	if err == nil {
		t.Fatal("unknown isolation level was accepted")
	}
	if !IsTransactionConfigError(err) {
		t.Errorf("error kind = %v, want transaction config error", err)
	}
	if cap.count() != 0 {
		t.Error("a network call was made despite the invalid configuration")
	}
}

func TestTransactionHookPerStatement(t *testing.T) {
	hook := &recordingHook{}
	client, _ := newTestClient(t, http.StatusOK, batchResponse("SELECT", "SELECT"), WithQueryHook(hook))

	statements := []Statement{
		Stmt("SELECT 1"),
		Stmt("SELECT $1::int", 7),
	}
	if _, err := client.Transaction(context.Background(), statements, nil); err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}

	if len(hook.before) != 2 || len(hook.after) != 2 {
		t.Fatalf("hook calls = %d before, %d after; want 2 and 2", len(hook.before), len(hook.after))
	}
	if hook.before[1].Query != "SELECT $1::int" {
		t.Errorf("BeforeQuery[1] query = %q", hook.before[1].Query)
	}
	if len(hook.before[1].Params) != 1 || *hook.before[1].Params[0] != "7" {
		t.Errorf("BeforeQuery[1] params = %#v, want [\"7\"]", hook.before[1].Params)
	}
}

func TestTransactionResultCountMismatch(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, batchResponse("SELECT"))

	statements := []Statement{Stmt("SELECT 1"), Stmt("SELECT 2")}
	_, err := client.Transaction(context.Background(), statements, nil)
	if err == nil {
		t.Fatal("Transaction did not report a short result set")
	}
	if !IsHTTPResponseError(err) {
		t.Errorf("error kind = %v, want HTTP response error", err)
	}
}

func TestTransactionHTTPError(t *testing.T) {
	client, _ := newTestClient(t, http.StatusBadRequest, "syntax error at or near")

	_, err := client.Transaction(context.Background(), []Statement{Stmt("SELEC 1")}, nil)
	if err == nil {
		t.Fatal("Transaction did not return an error for a 400 response")
	}
	if !IsHTTPResponseError(err) {
		t.Errorf("error kind = %v, want HTTP response error", err)
	}
}

func TestTransactionArrayMode(t *testing.T) {
	response := `{"results": [{
		"rows": [["1", "two"]],
		"fields": [
			{"name": "a", "dataTypeID": 23, "tableID": 0, "columnID": 0, "dataTypeSize": 4, "dataTypeModifier": -1, "format": "text"},
			{"name": "b", "dataTypeID": 25, "tableID": 0, "columnID": 0, "dataTypeSize": -1, "dataTypeModifier": -1, "format": "text"}
		],
		"rowCount": 1,
		"rowAsArray": true,
		"command": "SELECT"
	}]}`
	client, cap := newTestClient(t, http.StatusOK, response)

	opts := &TransactionOptions{QueryOptions: QueryOptions{ArrayMode: true}}
	results, err := client.Transaction(context.Background(), []Statement{Stmt("SELECT 1, 'two'")}, opts)
	if err != nil {
		t.Fatalf("Transaction returned error: %v", err)
	}

	if got := cap.lastHeader(t).Get("Neon-Array-Mode"); got != "true" {
		t.Errorf("Neon-Array-Mode = %q", got)
	}
	row := results[0].RowsArray[0]
	if len(row) != 2 || row[0] != int64(1) || row[1] != "two" {
		t.Errorf("RowsArray[0] = %#v, want [1 two]", row)
	}
}
