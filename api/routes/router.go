package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/homemade/pickleshop/api/controllers"
	"github.com/homemade/pickleshop/api/middleware"
	"github.com/homemade/pickleshop/api/render"
	"github.com/homemade/pickleshop/internal/cart"
	"github.com/homemade/pickleshop/internal/catalog"
	"github.com/homemade/pickleshop/internal/contacts"
	"github.com/homemade/pickleshop/internal/orders"
	"github.com/homemade/pickleshop/internal/records"
	"github.com/homemade/pickleshop/internal/reporting"
	"github.com/homemade/pickleshop/internal/users"
	"github.com/homemade/pickleshop/pkg/logger"
	"github.com/homemade/pickleshop/pkg/metrics"
	"github.com/homemade/pickleshop/pkg/session"
)

// Deps is everything the storefront router needs.
type Deps struct {
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Sessions     *session.Manager
	Renderer     *render.Renderer
	Policy       reporting.Policy
	Availability records.Availability

	Cart     cart.Service
	Orders   orders.Service
	Contacts contacts.Service
	Users    users.Service
}

func NewRouter(deps Deps) http.Handler {
	logg := deps.Logger
	rdr := deps.Renderer
	policy := deps.Policy

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.Metrics),
	)

	r.Get("/health", controllers.Health(deps.Availability))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(deps.Sessions.Middleware)

		r.Get("/", controllers.Index(rdr))
		r.Get("/home", controllers.Page(rdr, "home", "Home"))
		r.Get("/about", controllers.Page(rdr, "about", "About Us"))
		r.Get("/snacks", controllers.Products(rdr, catalog.CategorySnacks, "Snacks"))
		r.Get("/veg_pickles", controllers.Products(rdr, catalog.CategoryVegPickles, "Veg Pickles"))
		r.Get("/non_veg_pickles", controllers.Products(rdr, catalog.CategoryNonVegPickles, "Non-Veg Pickles"))

		r.Get("/success", controllers.Page(rdr, "sucess", "Thank You"))
		r.Get(controllers.SuccessPath, controllers.Page(rdr, "sucess", "Thank You"))

		r.Get("/order", controllers.Page(rdr, "order", "Place an Order"))
		r.Post("/order", controllers.PlaceOrder(deps.Orders, policy))
		r.Get("/contact", controllers.Page(rdr, "contact", "Contact Us"))
		r.Post("/contact", controllers.SubmitContact(deps.Contacts, policy))
		r.Post("/subscribe", controllers.Subscribe(deps.Contacts, policy))

		r.Get("/signup", controllers.Page(rdr, "signup", "Sign Up"))
		r.Post("/signup", controllers.Signup(deps.Users, policy))
		r.Get("/login", controllers.Page(rdr, "login", "Login"))
		r.Post("/login", controllers.Login(rdr, deps.Users))

		r.Get("/cart", controllers.ViewCart(rdr, deps.Cart, logg))
		r.Post("/add_to_cart", controllers.AddToCart(deps.Cart, policy))
		r.Post("/update_cart", controllers.UpdateCart(deps.Cart, policy, logg))
		r.Get("/checkout", controllers.ViewCheckout(rdr, deps.Cart, logg))
		r.Post("/checkout", controllers.Checkout(deps.Cart, deps.Orders, policy, logg))
	})

	return r
}
