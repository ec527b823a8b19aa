// Package domain holds the order and user profile types shown on the admin
// page, the shipping status vocabulary and the display formatting helpers.
package domain
