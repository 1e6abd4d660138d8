package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/bottoken/getUpdates") {
			t.Fatalf("path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if r.Form.Get("offset") != "7" {
			t.Fatalf("offset: %s", r.Form.Get("offset"))
		}
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":8,"message":{"message_id":1,"text":"/balance",
				"from":{"id":42,"first_name":"Ana","username":"anita"},
				"chat":{"id":-100,"type":"group","title":"Casa"}}}]}`))
	}))
	defer srv.Close()

	c := NewClient("token", WithBaseURL(srv.URL))
	updates, err := c.GetUpdates(context.Background(), 7, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if len(updates) != 1 {
		t.Fatalf("updates: %+v", updates)
	}
	u := updates[0]
	if u.UpdateID != 8 || u.Message == nil || u.Message.Text != "/balance" {
		t.Fatalf("update: %+v", u)
	}
	if u.Message.From.ID != 42 || u.Message.Chat.ID != -100 {
		t.Fatalf("identities: %+v", u.Message)
	}
}

func TestSendMessage(t *testing.T) {
	var gotText, gotMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotText = r.Form.Get("text")
		gotMode = r.Form.Get("parse_mode")
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewClient("token", WithBaseURL(srv.URL))
	if err := c.SendMessage(context.Background(), 1, "<b>hola</b>"); err != nil {
		t.Fatal(err)
	}
	if gotText != "<b>hola</b>" || gotMode != "HTML" {
		t.Fatalf("text=%q mode=%q", gotText, gotMode)
	}
}

func TestSendDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		if r.FormValue("chat_id") != "1" {
			t.Fatalf("chat_id: %s", r.FormValue("chat_id"))
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Fatal(err)
		}
		defer file.Close()
		if header.Filename != "gastos.csv" {
			t.Fatalf("filename: %s", header.Filename)
		}
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewClient("token", WithBaseURL(srv.URL))
	err := c.SendDocument(context.Background(), 1, "gastos.csv", "export", []byte("a,b\n"))
	if err != nil {
		t.Fatal(err)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"ok":false,"description":"Unauthorized"}`))
	}))
	defer srv.Close()

	c := NewClient("bad", WithBaseURL(srv.URL))
	if _, err := c.GetMe(context.Background()); err == nil || !strings.Contains(err.Error(), "Unauthorized") {
		t.Fatalf("expected API error, got %v", err)
	}
}
