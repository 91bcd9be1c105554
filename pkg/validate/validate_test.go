package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/kirana/pkg/validate"
)

type productInput struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"gte=0"`
	CategoryID  string  `json:"category_id" validate:"required"`
	Quantity    int     `json:"quantity"    validate:"gte=0"`
	Status      string  `json:"status"      validate:"nullable,in=draft,published"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productInput{
		Name:        "Basmati Rice 5kg",
		Description: "Long grain, aged 12 months",
		Price:       12.50,
		CategoryID:  "64b0c1f2a3d4e5f60718293a",
		Quantity:    40,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(productInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "description", "category_id"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestFirstFailingRuleWins(t *testing.T) {
	type in struct {
		Name string `json:"name" validate:"required,max=3"`
	}
	errs := validate.Struct(in{Name: "too long for the limit"})
	if errs["name"] != "The name must not exceed 3 characters." {
		t.Errorf("unexpected message: %q", errs["name"])
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Price float64 `json:"price" validate:"gte=0,lte=100000"`
	}
	if errs := validate.Struct(in{Price: -1}); !validate.HasErrors(errs) {
		t.Error("expected negative price to fail")
	}
	if errs := validate.Struct(in{Price: 0}); validate.HasErrors(errs) {
		t.Errorf("expected zero price to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{Price: 99.99}); validate.HasErrors(errs) {
		t.Errorf("expected price to pass, got: %v", errs)
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); !validate.HasErrors(errs) {
		t.Error("expected invalid email to fail")
	}
	if errs := validate.Struct(in{Email: "buyer@example.com"}); validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestInRuleKeepsMultiValueParams(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=draft,published,max=20"`
	}
	if errs := validate.Struct(in{Status: "archived"}); !validate.HasErrors(errs) {
		t.Error("expected value outside the list to fail")
	}
	if errs := validate.Struct(in{Status: "published"}); validate.HasErrors(errs) {
		t.Errorf("expected listed value to pass, got: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"nullable,in=draft,published"`
	}
	if errs := validate.Struct(in{Status: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	if errs := validate.Struct(in{Status: "bogus"}); !validate.HasErrors(errs) {
		t.Error("expected non-empty invalid value to fail")
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"between=0,500"`
	}
	if errs := validate.Struct(in{Quantity: 501}); !validate.HasErrors(errs) {
		t.Error("expected quantity > 500 to fail")
	}
	if errs := validate.Struct(in{Quantity: 12}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 12 to pass: %v", errs)
	}
}

func TestAlphaDashRule(t *testing.T) {
	type in struct {
		Slug string `json:"slug" validate:"required,alpha_dash"`
	}
	if errs := validate.Struct(in{Slug: "basmati-rice_5kg"}); validate.HasErrors(errs) {
		t.Errorf("expected alpha_dash to pass: %v", errs)
	}
	if errs := validate.Struct(in{Slug: "rice 5kg!"}); !validate.HasErrors(errs) {
		t.Error("expected spaces/punctuation to fail")
	}
}
