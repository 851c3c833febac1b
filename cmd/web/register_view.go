package main

import (
	"net/http"
	"strings"

	"libiss.org/pos-web/internal/account"
	mw "libiss.org/pos-web/internal/middleware"
	"libiss.org/pos-web/internal/wizard"
)

// RegisterView drives the `/create-store` page.
type RegisterView struct {
	StepIndex int
	StepCount int
	Steps     []RegisterStepMeta
	Fields    []RegisterField
	Controls  wizard.Controls

	Cities       []account.City
	CityError    bool
	SelectedCity string
}

// RegisterStepMeta renders the progress indicator.
type RegisterStepMeta struct {
	Index    int
	TitleKey string
	Active   bool
	Done     bool
}

// RegisterField is one rendered input of the active step.
type RegisterField struct {
	Name      string
	Kind      string
	LabelKey  string
	Required  bool
	MinLength int
	Value     string
	Error     string
	Autofocus bool
}

// registrationSteps defines the wizard: owner contact, shop details, then
// credentials on the final step so passwords never enter the session cookie.
func registrationSteps() []wizard.Step {
	return []wizard.Step{
		{Name: "owner", Fields: []wizard.Field{
			{Name: "name", Kind: "text", Required: true},
			{Name: "email", Kind: "email", Required: true},
			{Name: "phone", Kind: "tel", Required: true},
		}},
		{Name: "shop", Fields: []wizard.Field{
			{Name: "shopName", Kind: "text", Required: true},
			{Name: "inn", Kind: "text", Required: true},
			{Name: "description", Kind: "textarea"},
			{Name: "address", Kind: "text", Required: true},
			{Name: "cityId", Kind: "select"},
		}},
		{Name: "security", Fields: []wizard.Field{
			{Name: "password", Kind: "password", Required: true, MinLength: 8},
			{Name: "passwordConfirm", Kind: "password", Required: true, MinLength: 8},
		}},
	}
}

var registerStepTitles = map[string]string{
	"owner":    "form.stepOwner",
	"shop":     "form.stepShop",
	"security": "form.stepSecurity",
}

var registerFieldLabels = map[string]string{
	"name":            "form.name",
	"email":           "form.email",
	"phone":           "form.phone",
	"shopName":        "form.shopName",
	"inn":             "form.inn",
	"description":     "form.description",
	"address":         "form.address",
	"cityId":          "form.city",
	"password":        "form.password",
	"passwordConfirm": "form.passwordConfirm",
}

func buildRegisterView(lang string, wz *wizard.Wizard, values map[string]string, errs []wizard.FieldError, cities []account.City, cityErr bool) RegisterView {
	steps := registrationSteps()
	view := RegisterView{
		StepIndex:    wz.Current(),
		StepCount:    wz.Count(),
		Controls:     wz.Controls(),
		Cities:       cities,
		CityError:    cityErr,
		SelectedCity: values["cityId"],
	}
	for i, s := range steps {
		view.Steps = append(view.Steps, RegisterStepMeta{
			Index:    i,
			TitleKey: registerStepTitles[s.Name],
			Active:   i == wz.Current(),
			Done:     i < wz.Current(),
		})
	}
	byField := map[string]string{}
	for _, fe := range errs {
		if _, ok := byField[fe.Field]; !ok {
			byField[fe.Field] = i18nBundle.T(lang, fe.Key)
		}
	}
	focus := wizard.FirstInvalid(errs)
	for _, f := range wz.Step().Fields {
		field := RegisterField{
			Name:      f.Name,
			Kind:      f.Kind,
			LabelKey:  registerFieldLabels[f.Name],
			Required:  f.Required,
			MinLength: f.MinLength,
			Error:     byField[f.Name],
			Autofocus: f.Name == focus,
		}
		if f.Kind != "password" {
			field.Value = values[f.Name]
		}
		view.Fields = append(view.Fields, field)
	}
	return view
}

// collectStepValues merges the posted values for the active step over the
// draft stored in the session. Password fields are validated and forwarded
// but never written back into the session cookie.
func collectStepValues(r *http.Request, sess *mw.SessionData, step wizard.Step) map[string]string {
	values := map[string]string{}
	for k, v := range sess.Registration.Values {
		values[k] = v
	}
	for _, f := range step.Fields {
		if _, ok := r.PostForm[f.Name]; !ok {
			continue
		}
		values[f.Name] = r.PostFormValue(f.Name)
	}
	return values
}

func persistDraft(sess *mw.SessionData, step int, values map[string]string) {
	draft := map[string]string{}
	for k, v := range values {
		if strings.HasPrefix(k, "password") {
			continue
		}
		draft[k] = v
	}
	sess.Registration.Step = step
	sess.Registration.Values = draft
	sess.MarkDirty()
}
