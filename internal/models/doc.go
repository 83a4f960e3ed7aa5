// Package models defines the core domain models for Caterbase.
//
// # Tenancy
//
// Every catalog row and estimate belongs to exactly one Tenant (a catering
// business). Nothing in this package looks up a "current" tenant; callers
// pass tenant IDs explicitly.
//
// # Models
//
//   - Tenant: a catering business and its default pricing
//   - Owner: the account that signs in and manages a tenant
//   - MenuCategory, MenuItem, ExtraItem, MenuTemplate: tenant catalog
//   - Estimate: one priced quote, owning its FoodChoice and ExtraLine rows
//
// # Money
//
// Amounts are decimal.Decimal. Estimate totals are never edited by hand;
// they are written by the pricing engine on every save.
package models
