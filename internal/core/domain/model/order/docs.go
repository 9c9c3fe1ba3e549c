// Package order holds the read model of a dine-in order as seen by the
// analytics core. Orders are created and mutated by the fulfillment workflow
// outside this service; here they are only restored from storage and inspected.
//
// Lifecycle:
//
//	pending -> accepted -> preparing -> ready -> ready_to_service -> served
//	   \__________\___________\__________\____________\______> cancelled
//
// Statuses before served are "active": the table is still being served.
package order
