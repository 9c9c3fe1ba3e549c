// Package kernel provides the primitives shared by every back-office aggregate:
//   - UUID: identifier value object for orders, menu items and tables
//   - RestaurantID: the explicit tenant scope
//   - money helpers over integer minor units (cents)
package kernel
