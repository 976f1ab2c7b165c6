package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/customer-orders/internal/customer"
	"github.com/MikeMC777/customer-orders/internal/httpx"
	"github.com/MikeMC777/customer-orders/internal/order"
	"github.com/MikeMC777/customer-orders/internal/service"
	"github.com/MikeMC777/customer-orders/internal/store"
	"github.com/MikeMC777/customer-orders/internal/validation"
)

// healthHandler godoc
// @Summary      Liveness
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// createCustomerHandler godoc
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      customer.CreateCustomerRequest  true  "customer"
// @Success      201   {object}  customer.Customer
// @Failure      409   {object}  httpx.HTTPError
// @Failure      422   {object}  httpx.HTTPError
// @Router       /api/customers [post]
func createCustomerHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customer.CreateCustomerRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, validation.Decode(err))
			return
		}
		out, err := svc.CreateCustomer(c.Request.Context(), in)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// listCustomersHandler godoc
// @Summary      List customers by id
// @Tags         customers
// @Produce      json
// @Success      200  {array}  customer.Customer
// @Router       /api/customers [get]
func listCustomersHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.ListCustomers(c.Request.Context())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// getCustomerHandler godoc
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id   path      int  true  "customer id"
// @Success      200  {object}  customer.Customer
// @Failure      404  {object}  httpx.HTTPError
// @Failure      422  {object}  httpx.HTTPError
// @Router       /api/customers/{id} [get]
func getCustomerHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := httpx.IDParam(c, "id", store.CustomerNotFound)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		out, err := svc.GetCustomer(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// replaceCustomerHandler godoc
// @Summary      Replace customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path      int                              true  "customer id"
// @Param        body  body      customer.ReplaceCustomerRequest  true  "customer"
// @Success      200   {object}  customer.Customer
// @Failure      404   {object}  httpx.HTTPError
// @Failure      409   {object}  httpx.HTTPError
// @Failure      422   {object}  httpx.HTTPError
// @Router       /api/customers/{id} [put]
func replaceCustomerHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := httpx.IDParam(c, "id", store.CustomerNotFound)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		var in customer.ReplaceCustomerRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, validation.Decode(err))
			return
		}
		out, err := svc.ReplaceCustomer(c.Request.Context(), id, in)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// patchCustomerHandler godoc
// @Summary      Patch customer
// @Description  Only the fields present in the body change.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path      int                            true  "customer id"
// @Param        body  body      customer.PatchCustomerRequest  true  "fields to change"
// @Success      200   {object}  customer.Customer
// @Failure      404   {object}  httpx.HTTPError
// @Failure      409   {object}  httpx.HTTPError
// @Failure      422   {object}  httpx.HTTPError
// @Router       /api/customers/{id} [patch]
func patchCustomerHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := httpx.IDParam(c, "id", store.CustomerNotFound)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		var in customer.PatchCustomerRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, validation.Decode(err))
			return
		}
		out, err := svc.PatchCustomer(c.Request.Context(), id, &in)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteCustomerHandler godoc
// @Summary      Delete customer and its orders
// @Tags         customers
// @Param        id   path  int  true  "customer id"
// @Success      204
// @Failure      404  {object}  httpx.HTTPError
// @Failure      422  {object}  httpx.HTTPError
// @Router       /api/customers/{id} [delete]
func deleteCustomerHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := httpx.IDParam(c, "id", store.CustomerNotFound)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		if err := svc.DeleteCustomer(c.Request.Context(), id); err != nil {
			httpx.Error(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// createOrderHandler godoc
// @Summary      Create order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      order.CreateOrderRequest  true  "order"
// @Success      201   {object}  order.Order
// @Failure      404   {object}  httpx.HTTPError
// @Failure      409   {object}  httpx.HTTPError
// @Failure      422   {object}  httpx.HTTPError
// @Router       /api/orders [post]
func createOrderHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in order.CreateOrderRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, validation.Decode(err))
			return
		}
		out, err := svc.CreateOrder(c.Request.Context(), in)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// listOrdersHandler godoc
// @Summary      List orders by id
// @Tags         orders
// @Produce      json
// @Success      200  {array}  order.Order
// @Router       /api/orders [get]
func listOrdersHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.ListOrders(c.Request.Context())
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// getOrderHandler godoc
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id   path      int  true  "order id"
// @Success      200  {object}  order.Order
// @Failure      404  {object}  httpx.HTTPError
// @Failure      422  {object}  httpx.HTTPError
// @Router       /api/orders/{id} [get]
func getOrderHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := httpx.IDParam(c, "id", store.OrderNotFound)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		out, err := svc.GetOrder(c.Request.Context(), id)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
