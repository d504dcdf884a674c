// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseType represents the kind of ledger movement.
type ExpenseType string

const (
	ExpenseTypeIncome       ExpenseType = "income"
	ExpenseTypeExpense      ExpenseType = "expense"
	ExpenseTypeCarryForward ExpenseType = "carryForward"
)

// IsValid reports whether t is a known expense type.
func (t ExpenseType) IsValid() bool {
	switch t {
	case ExpenseTypeIncome, ExpenseTypeExpense, ExpenseTypeCarryForward:
		return true
	}
	return false
}

// Currency represents a supported ledger currency.
type Currency string

const (
	CurrencyMYR Currency = "MYR"
	CurrencyINR Currency = "INR"
)

// Currencies lists every supported currency.
var Currencies = []Currency{CurrencyMYR, CurrencyINR}

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	return c == CurrencyMYR || c == CurrencyINR
}

// Channel represents the payment channel of a record.
type Channel string

const (
	ChannelCash          Channel = "cash"
	ChannelCreditCard    Channel = "creditCard"
	ChannelDebitCard     Channel = "debitCard"
	ChannelOnlineBanking Channel = "onlineBanking"
	ChannelTNG           Channel = "tng"
	ChannelGrabPay       Channel = "grabPay"
	ChannelUPI           Channel = "upi"
	ChannelCarryForward  Channel = "carryForward"
)

// IsValid reports whether ch is a known channel.
func (ch Channel) IsValid() bool {
	switch ch {
	case ChannelCash, ChannelCreditCard, ChannelDebitCard, ChannelOnlineBanking,
		ChannelTNG, ChannelGrabPay, ChannelUPI, ChannelCarryForward:
		return true
	}
	return false
}

// Category represents the spending or earning category of a record.
type Category string

const (
	CategoryRent              Category = "rent"
	CategoryGroceries         Category = "groceries"
	CategoryWaterBill         Category = "waterbill"
	CategoryElectricityBill   Category = "electricitybill"
	CategoryInternet          Category = "internet"
	CategoryMobileBill        Category = "mobileBill"
	CategoryWaterPurifierBill Category = "waterPurifierBill"
	CategoryCreditCardBill    Category = "creditCardBill"
	CategoryEatingOut         Category = "eatingout"
	CategoryEntertainment     Category = "entertainment"
	CategoryTransportation    Category = "transportation"
	CategoryHealthcare        Category = "healthcare"
	CategoryEducation         Category = "education"
	CategoryShopping          Category = "shopping"
	CategoryCricket           Category = "cricket"
	CategoryTransfer          Category = "transfer"
	CategoryPiggyBankSavings  Category = "piggyBankSavings"
	CategoryOthers            Category = "others"
	CategorySalary            Category = "salary"
	CategorySavings           Category = "savings"
	CategoryMaidSalary        Category = "maidSalary"
	CategoryCarryForward      Category = "carryForward"
)

var validCategories = map[Category]struct{}{
	CategoryRent: {}, CategoryGroceries: {}, CategoryWaterBill: {}, CategoryElectricityBill: {},
	CategoryInternet: {}, CategoryMobileBill: {}, CategoryWaterPurifierBill: {}, CategoryCreditCardBill: {},
	CategoryEatingOut: {}, CategoryEntertainment: {}, CategoryTransportation: {}, CategoryHealthcare: {},
	CategoryEducation: {}, CategoryShopping: {}, CategoryCricket: {}, CategoryTransfer: {},
	CategoryPiggyBankSavings: {}, CategoryOthers: {}, CategorySalary: {}, CategorySavings: {},
	CategoryMaidSalary: {}, CategoryCarryForward: {},
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	_, ok := validCategories[c]
	return ok
}

// RecurringCycle represents how often a recurring definition repeats.
type RecurringCycle string

const (
	RecurringCycleMonthly RecurringCycle = "monthly"
	RecurringCycleYearly  RecurringCycle = "yearly"
)

// IsValid reports whether c is a known cycle.
func (c RecurringCycle) IsValid() bool {
	return c == RecurringCycleMonthly || c == RecurringCycleYearly
}

// Expense is a ledger record. When IsRecurring is set the record is a
// definition and only its projected occurrences are aggregated.
type Expense struct {
	ID             uuid.UUID
	Title          string
	Amount         decimal.Decimal
	Date           time.Time
	Type           ExpenseType
	Currency       Currency
	Channel        Channel
	Category       Category
	Notes          *string
	BillingMonth   *time.Time
	IsRecurring    bool
	RecurringStart *time.Time
	RecurringEnd   *time.Time
	RecurringCycle *RecurringCycle
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewExpense creates a new Expense entity with a fresh identifier.
func NewExpense(
	title string,
	amount decimal.Decimal,
	date time.Time,
	expenseType ExpenseType,
	currency Currency,
	channel Channel,
	category Category,
) *Expense {
	now := time.Now().UTC()

	return &Expense{
		ID:        uuid.New(),
		Title:     title,
		Amount:    amount,
		Date:      date,
		Type:      expenseType,
		Currency:  currency,
		Channel:   channel,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Cycle returns the recurring cycle, defaulting to monthly.
func (e *Expense) Cycle() RecurringCycle {
	if e.RecurringCycle == nil || *e.RecurringCycle == "" {
		return RecurringCycleMonthly
	}
	return *e.RecurringCycle
}

// NotesText returns the notes or an empty string.
func (e *Expense) NotesText() string {
	if e.Notes == nil {
		return ""
	}
	return *e.Notes
}
