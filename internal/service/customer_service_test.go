package service

import (
	"errors"
	"testing"

	"github.com/jmaalouf1/pm-tracker/internal/repository"
)

func TestCustomerCreateWithContacts(t *testing.T) {
	db := setupDB(t)
	svc := NewCustomerService(repository.NewCustomerRepository(db))

	customer, err := svc.Create(testCtx, &CreateCustomerRequest{
		Name:    "Acme",
		Country: "SA",
		Contacts: []ContactInput{
			{Name: "Dana", Role: "procurement", IsPrimary: true},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, err := svc.Get(testCtx, customer.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(stored.Contacts) != 1 || stored.Contacts[0].Name != "Dana" {
		t.Errorf("contacts = %+v, want Dana preloaded", stored.Contacts)
	}
}

func TestCustomerCreateDuplicateName(t *testing.T) {
	db := setupDB(t)
	svc := NewCustomerService(repository.NewCustomerRepository(db))
	seedCustomer(t, db, "Acme")

	_, err := svc.Create(testCtx, &CreateCustomerRequest{Name: "Acme"})
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
}

func TestCustomerPartialUpdate(t *testing.T) {
	db := setupDB(t)
	svc := NewCustomerService(repository.NewCustomerRepository(db))
	customer := seedCustomer(t, db, "Acme")

	country := "AE"
	updated, err := svc.Update(testCtx, customer.ID, &UpdateCustomerRequest{Country: &country})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Country != "AE" {
		t.Errorf("country = %q, want AE", updated.Country)
	}
	if updated.Name != "Acme" {
		t.Errorf("name = %q, untouched fields must survive", updated.Name)
	}
}

func TestCustomerContactLifecycle(t *testing.T) {
	db := setupDB(t)
	svc := NewCustomerService(repository.NewCustomerRepository(db))
	customer := seedCustomer(t, db, "Acme")

	contact, err := svc.AddContact(testCtx, customer.ID, &ContactInput{Name: "Dana"})
	if err != nil {
		t.Fatalf("AddContact: %v", err)
	}

	email := "dana@acme.example"
	updated, err := svc.UpdateContact(testCtx, customer.ID, contact.ID, &UpdateContactRequest{Email: &email})
	if err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
	if updated.Email != email {
		t.Errorf("email = %q, want %q", updated.Email, email)
	}

	if err := svc.DeleteContact(testCtx, customer.ID, contact.ID); err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	stored, _ := svc.Get(testCtx, customer.ID)
	if len(stored.Contacts) != 0 {
		t.Error("contact not deleted")
	}
}

func TestCustomerGetUnknown(t *testing.T) {
	db := setupDB(t)
	svc := NewCustomerService(repository.NewCustomerRepository(db))

	_, err := svc.Get(testCtx, "missing")
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}
