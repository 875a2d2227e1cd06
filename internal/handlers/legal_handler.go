package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/gofiber/fiber/v2"
)

// NameSource returns the platform display name.
type NameSource interface {
	PlatformName(ctx context.Context) string
}

type LegalHandler struct {
	names NameSource
}

func NewLegalHandler(names NameSource) *LegalHandler {
	return &LegalHandler{names: names}
}

const legalHead = `<!DOCTYPE html>
<html><head><title>%s</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>`

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	name := html.EscapeString(h.names.PlatformName(c.UserContext()))

	return c.Type("html").SendString(page("Privacy Policy - "+name) + `
<h1>Privacy Policy</h1>
<p>Last updated: October 2026</p>
<h2>Information We Collect</h2>
<p>We collect your email address, profile details and the content you post to provide ` + name + `.</p>
<h2>Reports and Support</h2>
<p>When you report content or open a support ticket, we store the report or ticket, your messages and the outcome so our moderation team can act on it.</p>
<h2>Data Storage</h2>
<p>Your data is stored on encrypted servers. We do not sell your personal information to third parties.</p>
<h2>Contact</h2>
<p>For questions about this policy, open a support ticket from your account.</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	name := html.EscapeString(h.names.PlatformName(c.UserContext()))

	return c.Type("html").SendString(page("Terms of Service - "+name) + `
<h1>Terms of Service</h1>
<p>Last updated: October 2026</p>
<h2>Acceptance</h2>
<p>By using ` + name + `, you agree to these terms.</p>
<h2>Community Guidelines</h2>
<p>You agree not to post spam, harassment, inappropriate or infringing content. Members can report content and our moderators may remove content or suspend accounts that violate these guidelines.</p>
<h2>Termination</h2>
<p>We may suspend or terminate accounts that violate these terms.</p>
<h2>Contact</h2>
<p>For questions, open a support ticket from your account.</p>
</body></html>`)
}

func page(title string) string {
	return fmt.Sprintf(legalHead, title)
}
