package account

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shortdrama-cli/shortdrama/network"
	. "github.com/smartystreets/goconvey/convey"
)

func serve(body string) (*Client, *httptest.Server) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathLogin:
			if r.URL.Query().Get("password_dve") != HashPassword("secret") {
				_, _ = w.Write([]byte(`{"code": 200, "error": 0, "data": {"user_id": false}}`))
				return
			}
		}
		_, _ = w.Write([]byte(body))
	}))

	return &Client{BaseURL: server.URL, ServiceID: "2500", Timeout: time.Second}, server
}

func TestHashPassword(t *testing.T) {
	Convey("The password digest wraps the plaintext in the fixed salt", t, func() {
		So(HashPassword("secret"), ShouldEqual, "8acf63f59df223cd5e0f2e5aad881f07ea2e7271")
	})
}

func TestLogin(t *testing.T) {
	Convey("Given an auth server", t, func() {
		Convey("Valid credentials return the user id", func() {
			client, server := serve(`{"code": 200, "error": 0, "data": {"user_id": 4242}}`)
			defer server.Close()

			id, err := client.Login(context.Background(), "jane@example.com", "secret")
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 4242)
		})

		Convey("A false user id means invalid credentials", func() {
			client, server := serve(`{}`)
			defer server.Close()

			_, err := client.Login(context.Background(), "jane@example.com", "wrong")
			So(errors.Is(err, ErrInvalidCredentials), ShouldBeTrue)
		})

		Convey("A non-zero error field is an APIError", func() {
			client, server := serve(`{"code": 500, "error": 1, "data": {"user_id": false}}`)
			defer server.Close()

			_, err := client.Login(context.Background(), "jane@example.com", "secret")
			var apiErr *APIError
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.Code, ShouldEqual, 500)
		})

		Convey("An unreachable server is reported as offline", func() {
			client, server := serve(`{}`)
			server.Close()

			_, err := client.Login(context.Background(), "jane@example.com", "secret")
			So(errors.Is(err, network.ErrOffline), ShouldBeTrue)
		})
	})
}

func TestInfo(t *testing.T) {
	Convey("Given an account-info server", t, func() {
		Convey("The first record is returned", func() {
			client, server := serve(`{"code": 200, "error": 0, "data": [
				{"user_id": "4242", "email": "jane@example.com", "msisdn": null, "firstname": null, "subscribed": true, "country": "GB"}
			]}`)
			defer server.Close()

			user, err := client.Info(context.Background(), 4242)
			So(err, ShouldBeNil)
			So(user.ID, ShouldEqual, "4242")
			So(user.Subscribed, ShouldBeTrue)
			So(user.DisplayName(), ShouldEqual, "jane@example.com")
		})

		Convey("An empty data array carries the server message", func() {
			client, server := serve(`{"code": 404, "error": 1, "message": "user not found"}`)
			defer server.Close()

			_, err := client.Info(context.Background(), 1)
			var apiErr *APIError
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.Message, ShouldEqual, "user not found")
		})

		Convey("A 5xx response is a StatusError", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer server.Close()

			client := &Client{BaseURL: server.URL, ServiceID: "2500"}
			_, err := client.Info(context.Background(), 1)
			So(network.Code(err), ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestDisplayName(t *testing.T) {
	Convey("Display names fall back from first name to phone to email", t, func() {
		So((&User{FirstName: "Jane", MSISDN: "447700900000", Email: "j@x.io"}).DisplayName(), ShouldEqual, "Jane")
		So((&User{MSISDN: "447700900000", Email: "j@x.io"}).DisplayName(), ShouldEqual, "447700900000")
		So((&User{Email: "j@x.io"}).DisplayName(), ShouldEqual, "j@x.io")
		So((&User{}).DisplayName(), ShouldBeEmpty)
	})
}
