package service

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/shenikar/ignis_incident_service/internal/models"
)

var signatureDataPattern = regexp.MustCompile(`^data:image/(png|jpg|jpeg|gif|webp);base64,[A-Za-z0-9+/=]+$`)

// isValidSignatureData проверяет, что строка является data URI изображения в base64
func isValidSignatureData(data string) bool {
	return signatureDataPattern.MatchString(data)
}

// isImageDataURI проверяет только префикс data:image
func isImageDataURI(data string) bool {
	return strings.HasPrefix(strings.ToLower(data), "data:image")
}

// isTrustedMediaURL проверяет, что ссылка указывает на доверенный хостинг медиа
func isTrustedMediaURL(raw, trustedHost string) bool {
	if trustedHost == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.EqualFold(u.Hostname(), trustedHost)
}

// isRemoteReference отличает ссылку от inline-представления подписи
func isRemoteReference(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// missingFinalizeFields возвращает список обязательных полей, которые не заполнены
func missingFinalizeFields(report *models.FinalReport, signerName, signatureURL, signatureData string) []string {
	var missing []string
	if report != nil {
		if report.DeployedUnit == "" {
			missing = append(missing, "deployed_unit")
		}
		if report.Team == "" {
			missing = append(missing, "team")
		}
		if report.ActionDescription == "" {
			missing = append(missing, "action_description")
		}
		if report.FinalLatitude == nil {
			missing = append(missing, "final_latitude")
		}
		if report.FinalLongitude == nil {
			missing = append(missing, "final_longitude")
		}
	}
	if signerName == "" {
		missing = append(missing, "signer_name")
	}
	if signatureURL == "" && signatureData == "" {
		missing = append(missing, "signature_url/signature_data")
	}
	return missing
}
