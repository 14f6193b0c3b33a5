package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sjperalta/dealership-api/internal/models"
	"github.com/sjperalta/dealership-api/internal/validation"
	"github.com/sjperalta/dealership-api/pkg/logger"
	"resty.dev/v3"
)

// Ad channels
const (
	AdChannelInstagram   = "instagram"
	AdChannelFacebook    = "facebook"
	AdChannelMarketplace = "marketplace"
	AdChannelWhatsApp    = "whatsapp"
)

// AdCopy sources
const (
	AdCopySourceAI       = "ai"
	AdCopySourceTemplate = "template"
)

// AdCopyRequest asks for an ad text of a vehicle
type AdCopyRequest struct {
	VehicleID uint   `json:"vehicle_id" binding:"required"`
	Channel   string `json:"channel"`
	Tone      string `json:"tone"`
	Extra     string `json:"extra"`
}

// AdCopy is a generated ad text
type AdCopy struct {
	VehicleID uint      `json:"vehicle_id"`
	Channel   string    `json:"channel"`
	Text      string    `json:"text"`
	Hashtags  []string  `json:"hashtags"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AdCopyService writes marketing copy for vehicles through an
// OpenAI-compatible chat completions API, with a template fallback.
type AdCopyService struct {
	vehicles *VehicleService
	settings *SettingService
	client   *resty.Client
	apiURL   string
	model    string
}

// NewAdCopyService creates the service; without apiURL or apiKey only the
// template generator is used.
func NewAdCopyService(vehicles *VehicleService, settings *SettingService, apiURL, apiKey, model string) *AdCopyService {
	s := &AdCopyService{vehicles: vehicles, settings: settings, apiURL: apiURL, model: model}
	if apiURL != "" && apiKey != "" {
		s.client = resty.New().
			SetTimeout(30 * time.Second).
			SetRetryCount(1).
			SetAuthToken(apiKey).
			SetHeader("Content-Type", "application/json")
	}
	if s.model == "" {
		s.model = "gpt-4o-mini"
	}
	return s
}

// Close releases the HTTP client
func (s *AdCopyService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Generate returns ad copy for a vehicle. API failures fall back to the
// template so the console always gets a text.
func (s *AdCopyService) Generate(ctx context.Context, req AdCopyRequest) (*AdCopy, error) {
	channel := strings.ToLower(strings.TrimSpace(req.Channel))
	if channel == "" {
		channel = AdChannelInstagram
	}
	switch channel {
	case AdChannelInstagram, AdChannelFacebook, AdChannelMarketplace, AdChannelWhatsApp:
	default:
		return nil, &validation.Error{Fields: map[string]string{"channel": "Canal inválido"}}
	}
	req.Channel = channel

	vehicle, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	setting, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	result := &AdCopy{
		VehicleID: vehicle.ID,
		Channel:   channel,
		Hashtags:  adHashtags(vehicle),
		CreatedAt: time.Now(),
	}

	if s.client != nil {
		text, err := s.complete(ctx, vehicle, setting, req)
		if err == nil {
			result.Text = text
			result.Source = AdCopySourceAI
			return result, nil
		}
		logger.Warn("Ad copy API failed, using template", "vehicle_id", vehicle.ID, "error", err)
	}

	result.Text = templateAdCopy(vehicle, setting, channel)
	result.Source = AdCopySourceTemplate
	return result, nil
}

func (s *AdCopyService) complete(ctx context.Context, vehicle *models.Vehicle, setting *models.Setting, req AdCopyRequest) (string, error) {
	tone := req.Tone
	if tone == "" {
		tone = "entusiasta y profesional"
	}
	prompt := fmt.Sprintf(
		"Escribe un anuncio para %s del siguiente vehículo en venta en %s.\nTono: %s.\n%s\nNo inventes datos que no estén en la ficha.",
		req.Channel, setting.DealershipName, tone, vehicleSheet(vehicle))
	if extra := strings.TrimSpace(req.Extra); extra != "" {
		prompt += "\nIndicaciones adicionales: " + extra
	}

	var out chatResponse
	var apiErr chatError
	res, err := s.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: s.model,
			Messages: []chatMessage{
				{Role: "system", Content: "Eres redactor publicitario de una agencia de vehículos en Honduras. Respondes solo con el texto del anuncio, en español."},
				{Role: "user", Content: prompt},
			},
			Temperature: 0.8,
			MaxTokens:   400,
		}).
		SetResult(&out).
		SetError(&apiErr).
		Post(s.apiURL)
	if err != nil {
		return "", fmt.Errorf("ad copy request: %w", err)
	}
	if res.IsError() {
		return "", fmt.Errorf("ad copy api returned %d: %s", res.StatusCode(), apiErr.Error.Message)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("ad copy api returned no text")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

var fuelLabels = map[string]string{
	models.FuelGasoline: "Gasolina",
	models.FuelEthanol:  "Etanol",
	models.FuelFlex:     "Flex",
	models.FuelDiesel:   "Diésel",
	models.FuelElectric: "Eléctrico",
	models.FuelHybrid:   "Híbrido",
}

var transmissionLabels = map[string]string{
	models.TransmissionManual:    "Manual",
	models.TransmissionAutomatic: "Automática",
}

func vehicleSheet(v *models.Vehicle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vehículo: %s\n", v.Title())
	fmt.Fprintf(&b, "Precio: %s\n", formatMoney(v.Price))
	fmt.Fprintf(&b, "Kilometraje: %d km\n", v.MileageKm)
	if label, ok := fuelLabels[v.Fuel]; ok {
		fmt.Fprintf(&b, "Combustible: %s\n", label)
	}
	if label, ok := transmissionLabels[v.Transmission]; ok {
		fmt.Fprintf(&b, "Transmisión: %s\n", label)
	}
	if v.Color != "" {
		fmt.Fprintf(&b, "Color: %s\n", v.Color)
	}
	if v.Description != "" {
		fmt.Fprintf(&b, "Descripción: %s\n", v.Description)
	}
	return b.String()
}

// templateAdCopy is the deterministic fallback text.
func templateAdCopy(v *models.Vehicle, setting *models.Setting, channel string) string {
	var b strings.Builder
	if channel == AdChannelWhatsApp {
		fmt.Fprintf(&b, "*%s*\n", v.Title())
	} else {
		fmt.Fprintf(&b, "🚗 %s\n", v.Title())
	}
	b.WriteString("\n")
	b.WriteString(vehicleSheet(v))
	b.WriteString("\nAceptamos vehículo en parte de pago y ofrecemos financiamiento.\n")
	fmt.Fprintf(&b, "Visítanos en %s", setting.DealershipName)
	if setting.Address != "" {
		fmt.Fprintf(&b, ", %s", setting.Address)
	}
	b.WriteString(".")
	if setting.WhatsApp != "" {
		fmt.Fprintf(&b, "\nWhatsApp: %s", setting.WhatsApp)
	} else if setting.Phone != "" {
		fmt.Fprintf(&b, "\nTeléfono: %s", setting.Phone)
	}
	return b.String()
}

func adHashtags(v *models.Vehicle) []string {
	tags := []string{"#autosenventa", "#carros"}
	for _, word := range []string{v.Brand.Name, v.Model.Name} {
		tag := strings.ToLower(strings.Join(strings.Fields(word), ""))
		if tag != "" {
			tags = append(tags, "#"+tag)
		}
	}
	if v.Year > 0 {
		tags = append(tags, fmt.Sprintf("#%d", v.Year))
	}
	return tags
}
