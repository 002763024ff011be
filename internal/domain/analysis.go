package domain

import "fmt"

// ArticleAnalysis is the structured output contract imposed on the LLM.
// JSON tags are the wire format, both for the model response and for the
// jsonb column the analysis is stored in.
type ArticleAnalysis struct {
	// Résumé factuel et dense, style agence de presse, 700-800 caractères.
	ResumeNeutre string `json:"resume_neutre"`
	// Problématique principale ou universelle soulevée par l'article.
	ProblematiqueGenerale string `json:"problematique_generale"`
	// Impact direct ou indirect de cet événement sur l'Afrique.
	ImpactAfrique string `json:"impact_afrique"`
	// Dépendance ou faiblesse que cela révèle pour le continent.
	ProblematiqueAfricaine string `json:"problematique_africaine"`
	// Leçon critique, le "wake-up call" pour l'Afrique.
	EveilDeConscience string `json:"eveil_de_conscience"`
	// Idée d'opportunité concrète pour l'écosystème tech africain.
	PisteOpportunite string `json:"piste_opportunite"`
	// Ex: "Faillite", "Lancement de produit", "Tendance".
	TypeEvenement string `json:"type_evenement"`
	// Résumé de l'événement et de son importance.
	ResumeStrategique string `json:"resume_strategique"`
	// Conseil principal à tirer de cet événement.
	LeconARetenir string `json:"lecon_a_retenir"`
	// Impact potentiel sur l'industrie.
	ImpactPotentiel string `json:"impact_potentiel"`
	// Score de 1 à 10 sur l'importance pour l'Afrique.
	ScorePertinence int `json:"score_pertinence"`
}

// Validate checks the hard invariants of the contract. The 700-800 character
// target on ResumeNeutre is requested via prompt only and is not enforced.
func (a ArticleAnalysis) Validate() error {
	if a.ScorePertinence < 1 || a.ScorePertinence > 10 {
		return fmt.Errorf("score_pertinence %d outside [1,10]", a.ScorePertinence)
	}
	if a.ResumeNeutre == "" {
		return fmt.Errorf("resume_neutre is empty")
	}
	return nil
}
