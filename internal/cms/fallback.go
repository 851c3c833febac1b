package cms

// Embedded fallback documentation, used when the content directory is
// missing or a locale file was never written.

var fallbackSources = map[string]string{
	"getting-started.ru": `---
title: Настройка POS
summary: Пошаговая настройка кассы после регистрации магазина.
lang: ru
tutorial:
  - title: Скачайте приложение
    body: Установите приложение Libiss POS на планшет или кассовый терминал.
  - title: Войдите в аккаунт
    body: Используйте телефон и пароль, указанные при регистрации магазина.
  - title: Добавьте товары
    body: Создайте каталог — названия, цены и остатки появятся на кассе сразу.
  - title: Примите первую оплату
    body: Пробейте тестовый чек, чтобы убедиться, что касса готова к работе.
---

Регистрация завершена. Давайте настроим POS: четыре коротких шага отделяют
вас от первой продажи.
`,
	"getting-started.en": `---
title: POS setup
summary: Step-by-step checkout setup after shop registration.
lang: en
tutorial:
  - title: Install the app
    body: Install the Libiss POS app on a tablet or checkout terminal.
  - title: Sign in
    body: Use the phone number and password from your shop registration.
  - title: Add products
    body: Build the catalog — names, prices and stock show up at the register immediately.
  - title: Take a first payment
    body: Ring up a test receipt to confirm the register is ready.
---

Registration is complete. Let's set up the POS: four short steps stand
between you and the first sale.
`,
}

func fallbackDoc(slug, lang string) (Doc, bool) {
	src, ok := fallbackSources[slug+"."+lang]
	if !ok {
		return Doc{}, false
	}
	doc, err := Parse(slug, lang, []byte(src))
	if err != nil {
		return Doc{}, false
	}
	return doc, true
}
