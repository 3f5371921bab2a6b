// Package quiz implements quiz-mode progressive disclosure for synthesis steps.
//
// Preferences hold the application-wide quiz settings (which field categories
// start hidden) and persist every change through an injected Port. A
// Controller owns the reveal state for the step currently on screen and
// decides, per category, whether the real value or a placeholder is shown. A
// Player ties a Controller to a step cursor so reveal state is cleared every
// time the position changes.
package quiz
