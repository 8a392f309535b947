package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homemade/pickleshop/api/render"
	"github.com/homemade/pickleshop/internal/cart"
	"github.com/homemade/pickleshop/internal/orders"
	"github.com/homemade/pickleshop/internal/records"
	"github.com/homemade/pickleshop/internal/reporting"
	"github.com/homemade/pickleshop/internal/users"
	"github.com/homemade/pickleshop/pkg/notify"
	"github.com/homemade/pickleshop/pkg/security"
	"github.com/homemade/pickleshop/pkg/session"
	"github.com/homemade/pickleshop/web"
)

type fakeStore struct {
	failOn map[string]error
	tables []string
}

func (s *fakeStore) Put(_ context.Context, table string, _ records.Record) error {
	if err := s.failOn[table]; err != nil {
		return err
	}
	s.tables = append(s.tables, table)
	return nil
}

func (s *fakeStore) Backend() string { return records.BackendLocal }

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	rdr, err := render.New(web.Templates, web.TemplateDir, nil, nil)
	require.NoError(t, err)
	return rdr
}

func newCart(t *testing.T) cart.Service {
	t.Helper()
	svc, err := cart.NewService(cart.NewSessionRepository(), cart.DefaultPricing(), nil)
	require.NoError(t, err)
	return svc
}

func newOrders(t *testing.T, store records.Store) orders.Service {
	t.Helper()
	svc, err := orders.NewService(orders.Deps{Store: store, Tables: records.DefaultTables(), Notifier: notify.Noop{}})
	require.NoError(t, err)
	return svc
}

func withSession(req *http.Request, sess *session.Session) *http.Request {
	return req.WithContext(session.WithSession(req.Context(), sess))
}

func postForm(target string, form url.Values, sess *session.Session) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return withSession(req, sess)
}

func TestHealthReportsStartupAvailability(t *testing.T) {
	cases := []struct {
		name  string
		avail records.Availability
		want  []string
	}{
		{name: "local mode", avail: records.Availability{Backend: records.BackendLocal}, want: []string{"local"}},
		{name: "dynamodb", avail: records.Availability{Available: true, Backend: records.BackendDynamoDB}, want: []string{"local", "aws"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Health(tc.avail)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			require.Equal(t, http.StatusOK, w.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "healthy", body.Status)
			assert.Equal(t, tc.want, body.Services)
		})
	}
}

func TestIndexRedirectsFirstVisitToSignup(t *testing.T) {
	handler := Index(newRenderer(t))
	sess := &session.Session{ID: "s"}

	first := httptest.NewRecorder()
	handler(first, withSession(httptest.NewRequest(http.MethodGet, "/", nil), sess))
	assert.Equal(t, http.StatusFound, first.Code)
	assert.Equal(t, "/signup", first.Header().Get("Location"))

	second := httptest.NewRecorder()
	handler(second, withSession(httptest.NewRequest(http.MethodGet, "/", nil), sess))
	assert.Equal(t, http.StatusOK, second.Code)
}

func TestProductsRendersCategory(t *testing.T) {
	w := httptest.NewRecorder()
	Products(newRenderer(t), "veg_pickles", "Veg Pickles")(w, withSession(httptest.NewRequest(http.MethodGet, "/veg_pickles", nil), &session.Session{ID: "s"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "add_to_cart")
}

func TestLogin(t *testing.T) {
	svc, err := users.NewService(&fakeStore{}, "Users", security.Plaintext{}, nil)
	require.NoError(t, err)
	handler := Login(newRenderer(t), svc)

	t.Run("missing password re-renders with flash", func(t *testing.T) {
		sess := &session.Session{ID: "s"}
		w := httptest.NewRecorder()
		handler(w, postForm("/login", url.Values{"username": {"asha"}}, sess))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), FlashLoginInvalid)
		assert.False(t, sess.LoggedIn)
	})

	t.Run("both fields present logs in", func(t *testing.T) {
		sess := &session.Session{ID: "s"}
		w := httptest.NewRecorder()
		handler(w, postForm("/login", url.Values{"username": {"asha"}, "password": {"pickles"}}, sess))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/home", w.Header().Get("Location"))
		assert.True(t, sess.LoggedIn)
		assert.Equal(t, "asha", sess.Username)
		assert.Equal(t, []string{FlashLoginOK}, sess.Flashes)
	})
}

func TestSignupRedirectsToLogin(t *testing.T) {
	store := &fakeStore{}
	svc, err := users.NewService(store, "Users", security.Plaintext{}, nil)
	require.NoError(t, err)
	sess := &session.Session{ID: "s"}

	w := httptest.NewRecorder()
	Signup(svc, reporting.Lenient{})(w, postForm("/signup", url.Values{
		"username": {"asha"}, "email": {"asha@example.com"}, "password": {"pickles"},
	}, sess))

	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, []string{"Users"}, store.tables)
	assert.Equal(t, []string{FlashSignupOK}, sess.Flashes)
}

func TestAddToCart(t *testing.T) {
	t.Run("named flash", func(t *testing.T) {
		svc := newCart(t)
		sess := &session.Session{ID: "s"}
		w := httptest.NewRecorder()
		AddToCart(svc, reporting.Lenient{})(w, postForm("/add_to_cart", url.Values{
			"item_name": {"Mango Pickle"}, "price": {"200"}, "quantity": {"2"},
		}, sess))

		assert.Equal(t, "/cart", w.Header().Get("Location"))
		assert.Equal(t, []string{"Mango Pickle added to cart successfully!"}, sess.Flashes)
		view, err := svc.View(context.Background(), sess, cart.ModeCart)
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, 2, view.Items[0].Quantity)
	})

	t.Run("bad price under lenient reports generic success", func(t *testing.T) {
		sess := &session.Session{ID: "s"}
		w := httptest.NewRecorder()
		AddToCart(newCart(t), reporting.Lenient{})(w, postForm("/add_to_cart", url.Values{
			"item_name": {"Mango Pickle"}, "price": {"cheap"},
		}, sess))

		assert.Equal(t, "/cart", w.Header().Get("Location"))
		assert.Equal(t, []string{FlashAddedGeneric}, sess.Flashes)
	})

	t.Run("bad price under strict surfaces failure", func(t *testing.T) {
		sess := &session.Session{ID: "s"}
		w := httptest.NewRecorder()
		AddToCart(newCart(t), reporting.Strict{})(w, postForm("/add_to_cart", url.Values{
			"item_name": {"Mango Pickle"}, "price": {"cheap"},
		}, sess))

		assert.Equal(t, []string{FlashWriteFailed}, sess.Flashes)
	})
}

func TestAddToCartQuantity(t *testing.T) {
	t.Run("missing quantity adds one unit", func(t *testing.T) {
		svc := newCart(t)
		sess := &session.Session{ID: "s"}
		w := httptest.NewRecorder()
		AddToCart(svc, reporting.Lenient{})(w, postForm("/add_to_cart", url.Values{
			"item_name": {"Lemon Pickle"}, "price": {"150"},
		}, sess))

		view, err := svc.View(context.Background(), sess, cart.ModeCart)
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, 1, view.Items[0].Quantity)
	})

	t.Run("explicit zero is rejected", func(t *testing.T) {
		svc := newCart(t)
		sess := &session.Session{ID: "s"}
		w := httptest.NewRecorder()
		AddToCart(svc, reporting.Lenient{})(w, postForm("/add_to_cart", url.Values{
			"item_name": {"Lemon Pickle"}, "price": {"150"}, "quantity": {"0"},
		}, sess))

		assert.Equal(t, "/cart", w.Header().Get("Location"))
		assert.Equal(t, []string{FlashAddedGeneric}, sess.Flashes)
		view, err := svc.View(context.Background(), sess, cart.ModeCart)
		require.NoError(t, err)
		assert.Empty(t, view.Items)
	})
}

func TestUpdateCartAlwaysRedirectsToCart(t *testing.T) {
	svc := newCart(t)
	sess := &session.Session{ID: "s"}
	item, err := svc.Add(context.Background(), sess, cart.AddInput{Name: "Lemon Pickle", UnitPrice: decimal.NewFromInt(150), Quantity: 1})
	require.NoError(t, err)
	handler := UpdateCart(svc, reporting.Lenient{}, nil)

	for _, form := range []url.Values{
		{"cart_id": {item.ID}, "action": {"increase"}},
		{"cart_id": {item.ID}, "action": {"explode"}},
		{"action": {"remove"}},
	} {
		w := httptest.NewRecorder()
		handler(w, postForm("/update_cart", form, sess))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/cart", w.Header().Get("Location"))
	}

	view, err := svc.View(context.Background(), sess, cart.ModeCart)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func checkoutValues() url.Values {
	return url.Values{"name": {"Asha"}, "email": {"asha@example.com"}, "address": {"12 MG Road"}, "total": {"470.00"}}
}

func TestCheckoutClearsCartOnceOrderIsRecorded(t *testing.T) {
	cartSvc := newCart(t)
	store := &fakeStore{}
	sess := &session.Session{ID: "s"}
	_, err := cartSvc.Add(context.Background(), sess, cart.AddInput{Name: "Mango Pickle", UnitPrice: decimal.NewFromInt(200), Quantity: 2})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	Checkout(cartSvc, newOrders(t, store), reporting.Lenient{}, nil)(w, postForm("/checkout", checkoutValues(), sess))

	assert.Equal(t, SuccessPath, w.Header().Get("Location"))
	assert.Contains(t, sess.Flashes, FlashOrderConfirmed)
	assert.Equal(t, []string{"PickleOrders", "CartItems"}, store.tables)

	view, err := cartSvc.View(context.Background(), sess, cart.ModeCheckout)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Totals.GrandTotal.IsZero())
}

func TestCheckoutKeepsCartWhenOrderWriteFails(t *testing.T) {
	cases := []struct {
		name     string
		policy   reporting.Policy
		location string
		flash    string
	}{
		{name: "lenient", policy: reporting.Lenient{}, location: SuccessPath, flash: FlashOrderConfirmed},
		{name: "strict", policy: reporting.Strict{}, location: "/checkout", flash: FlashWriteFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cartSvc := newCart(t)
			store := &fakeStore{failOn: map[string]error{"PickleOrders": errors.New("table missing")}}
			sess := &session.Session{ID: "s"}
			_, err := cartSvc.Add(context.Background(), sess, cart.AddInput{Name: "Mango Pickle", UnitPrice: decimal.NewFromInt(200), Quantity: 1})
			require.NoError(t, err)

			w := httptest.NewRecorder()
			Checkout(cartSvc, newOrders(t, store), tc.policy, nil)(w, postForm("/checkout", checkoutValues(), sess))

			assert.Equal(t, tc.location, w.Header().Get("Location"))
			assert.Equal(t, []string{tc.flash}, sess.Flashes)
			view, err := cartSvc.View(context.Background(), sess, cart.ModeCheckout)
			require.NoError(t, err)
			assert.Len(t, view.Items, 1)
		})
	}
}

func TestCheckoutSnapshotFailureStillConfirmsUnderStrict(t *testing.T) {
	cartSvc := newCart(t)
	store := &fakeStore{failOn: map[string]error{"CartItems": errors.New("throttled")}}
	sess := &session.Session{ID: "s"}
	_, err := cartSvc.Add(context.Background(), sess, cart.AddInput{Name: "Mango Pickle", UnitPrice: decimal.NewFromInt(200), Quantity: 1})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	Checkout(cartSvc, newOrders(t, store), reporting.Strict{}, nil)(w, postForm("/checkout", checkoutValues(), sess))

	assert.Equal(t, SuccessPath, w.Header().Get("Location"))
	assert.Equal(t, []string{FlashOrderConfirmed}, sess.Flashes)
	assert.Equal(t, []string{"PickleOrders"}, store.tables)
	view, err := cartSvc.View(context.Background(), sess, cart.ModeCheckout)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestViewCheckoutShowsTax(t *testing.T) {
	cartSvc := newCart(t)
	sess := &session.Session{ID: "s"}
	_, err := cartSvc.Add(context.Background(), sess, cart.AddInput{Name: "Mango Pickle", UnitPrice: decimal.NewFromInt(200), Quantity: 2})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	ViewCheckout(newRenderer(t), cartSvc, nil)(w, withSession(httptest.NewRequest(http.MethodGet, "/checkout", nil), sess))

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "₹20.00")
	assert.Contains(t, body, "₹470.00")
}
